package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"sectionview/internal/editor"
)

type NATSPublisher struct {
	nc            *nats.Conn
	subjectPrefix string
	logSubjects   bool
	metrics       PublisherMetrics
}

type PublisherMetrics interface {
	NATSPublishedInc()
	NATSPublishErrInc()
	PublishObserve(d time.Duration)
	NATSSetConnected(connected bool)
}

// PresentFunc answers one presentation request.
type PresentFunc func(ctx context.Context, req editor.Request) (*editor.Presentation, error)

// Reply is the body sent back on the request/reply subject.
type Reply struct {
	Presentation *editor.Presentation `json:"presentation,omitempty"`
	Error        string               `json:"error,omitempty"`
	Reason       string               `json:"reason,omitempty"`
}

func NewNATSPublisher(url, subjectPrefix string, logSubjects bool, m PublisherMetrics) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("sectionviewd"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			log.Printf("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	return &NATSPublisher{nc: nc, subjectPrefix: subjectPrefix, logSubjects: logSubjects, metrics: m}, nil
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		p.nc.Close()
	}
}

// PublishPresentation broadcasts p on <prefix>.<trainrunID>.<sectionID>.
func (p *NATSPublisher) PublishPresentation(pr *editor.Presentation) error {
	subject := PresentationSubject(p.subjectPrefix, pr.TrainrunID, pr.SectionID)
	b, err := json.Marshal(pr)
	if err != nil {
		return err
	}
	if p.logSubjects {
		log.Printf("nats publish subject=%s", subject)
	}
	start := time.Now()
	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		p.metrics.PublishObserve(time.Since(start))
		if err != nil {
			p.metrics.NATSPublishErrInc()
		} else {
			p.metrics.NATSPublishedInc()
		}
	}
	return err
}

// Serve answers requests on subject with present. Handlers run on the
// subscription's goroutine; each gets timeout to finish.
func (p *NATSPublisher) Serve(subject string, timeout time.Duration, present PresentFunc) error {
	_, err := p.nc.Subscribe(subject, func(msg *nats.Msg) {
		reply := HandleRequest(msg.Data, timeout, present)
		if reply.Presentation != nil {
			if err := p.PublishPresentation(reply.Presentation); err != nil {
				log.Printf("publish presentation error: %v", err)
			}
		}
		if msg.Reply == "" {
			return
		}
		b, err := json.Marshal(reply)
		if err != nil {
			log.Printf("marshal reply error: %v", err)
			return
		}
		if err := msg.Respond(b); err != nil {
			log.Printf("nats respond error: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	log.Printf("serving presentation requests on %s", subject)
	return nil
}

// HandleRequest decodes one request body and runs present on it.
func HandleRequest(data []byte, timeout time.Duration, present PresentFunc) Reply {
	var req editor.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Reply{Error: fmt.Sprintf("decode request: %v", err), Reason: "bad_request"}
	}
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	pr, err := present(ctx, req)
	if err != nil {
		return Reply{Error: err.Error(), Reason: editor.Reason(err)}
	}
	return Reply{Presentation: pr}
}

func PresentationSubject(prefix string, trainrunID, sectionID int) string {
	return fmt.Sprintf("%s.%d.%d", subjectPrefix(prefix), trainrunID, sectionID)
}

// subjectPrefix keeps dots as token separators but cleans each token.
func subjectPrefix(prefix string) string {
	parts := strings.Split(strings.Trim(strings.TrimSpace(prefix), "."), ".")
	for i, part := range parts {
		parts[i] = subjectToken(part)
	}
	return strings.Join(parts, ".")
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or trailing '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
