package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ResolveLatestVariantDBName returns the db_name of the most recently published
// variant of project from public.latest_published_variants.
func ResolveLatestVariantDBName(ctx context.Context, meta *sql.DB, project string) (string, error) {
	project = strings.TrimSpace(project)
	if project == "" {
		return "", fmt.Errorf("project is required")
	}
	// Fully qualified to the public schema (assumes we are connected to the 'postgres' database)
	q := `
SELECT db_name
FROM public.latest_published_variants
WHERE project_name ILIKE '%' || $1 || '%'
ORDER BY published_at DESC
LIMIT 1`
	var dbName sql.NullString
	if err := meta.QueryRowContext(ctx, q, project).Scan(&dbName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("no published variant for project like %q", project)
		}
		return "", err
	}
	if !dbName.Valid || dbName.String == "" {
		return "", fmt.Errorf("empty db_name for project like %q", project)
	}
	return dbName.String, nil
}
