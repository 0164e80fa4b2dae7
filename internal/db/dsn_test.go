package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDBName(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		db   string
		want string
	}{
		{"url", "postgres://u:p@localhost:5432/postgres?sslmode=disable", "variant_42", "postgres://u:p@localhost:5432/variant_42?sslmode=disable"},
		{"postgresql scheme", "postgresql://localhost/postgres", "/v1", "postgresql://localhost/v1"},
		{"missing scheme", "u@localhost:5432/postgres", "v2", "postgres://u@localhost:5432/v2"},
		{"keyword replace", "host=localhost dbname=postgres user=u", "v3", "host=localhost dbname=v3 user=u"},
		{"keyword add", "host=localhost user=u", "v4", "host=localhost user=u dbname=v4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithDBName(tt.dsn, tt.db)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithDBName_Errors(t *testing.T) {
	_, err := WithDBName("", "x")
	assert.Error(t, err)

	_, err = WithDBName("postgres://localhost/db", "")
	assert.Error(t, err)

	_, err = WithDBName("mysql://localhost/db", "x")
	assert.Error(t, err)
}
