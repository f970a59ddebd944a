// Package queue_publisher publishes booking events to RabbitMQ.  Callers
// treat publishing as best-effort: errors are returned so they can be
// logged and counted, never to fail the request that caused the event.
package queue_publisher

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    q "github.com/iliyamo/hotel-booking-api/internal/queue"
)

// ErrDisabled is returned by Publish when no broker URL is configured.
var ErrDisabled = errors.New("event publishing disabled")

// ErrUnavailable is returned without touching the network while another
// call is dialing or a recent dial failed.
var ErrUnavailable = errors.New("event broker unavailable")

const (
    dialTimeout  = 5 * time.Second // upper bound for TCP connect plus AMQP handshake
    redialPeriod = 2 * time.Second // no new dial this soon after a failed one
)

// Publisher keeps one connection and channel open and re-dials after the
// broker closes them.  It is safe for concurrent use; only one goroutine
// dials at a time and the others fail fast with ErrUnavailable.
type Publisher struct {
    url string

    mu       sync.Mutex
    conn     *amqp.Connection
    ch       *amqp.Channel
    dialing  bool
    nextDial time.Time
}

// New returns a Publisher for url.  No connection is made until the first
// Publish.
func New(url string) *Publisher {
    return &Publisher{url: url}
}

// channel returns an open channel, dialing when needed.  The dial happens
// outside p.mu and is bounded by ctx.
func (p *Publisher) channel(ctx context.Context) (*amqp.Channel, error) {
    p.mu.Lock()
    if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
        ch := p.ch
        p.mu.Unlock()
        return ch, nil
    }
    if p.dialing || time.Now().Before(p.nextDial) {
        p.mu.Unlock()
        return nil, ErrUnavailable
    }
    p.closeLocked()
    p.dialing = true
    p.mu.Unlock()

    conn, ch, err := p.dial(ctx)

    p.mu.Lock()
    defer p.mu.Unlock()
    p.dialing = false
    if err != nil {
        p.nextDial = time.Now().Add(redialPeriod)
        return nil, err
    }
    p.conn, p.ch = conn, ch
    return ch, nil
}

func (p *Publisher) dial(ctx context.Context) (*amqp.Connection, *amqp.Channel, error) {
    cfg := amqp.Config{Dial: func(network, addr string) (net.Conn, error) {
        deadline := time.Now().Add(dialTimeout)
        if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
            deadline = d
        }
        var dialer net.Dialer
        conn, err := dialer.DialContext(ctx, network, addr)
        if err != nil {
            return nil, err
        }
        // covers the AMQP handshake; the library clears it once open
        if err := conn.SetDeadline(deadline); err != nil {
            _ = conn.Close()
            return nil, err
        }
        return conn, nil
    }}
    conn, err := amqp.DialConfig(p.url, cfg)
    if err != nil {
        return nil, nil, fmt.Errorf("dial: %w", err)
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return nil, nil, fmt.Errorf("channel open: %w", err)
    }
    if err := q.DeclareTopology(ch); err != nil {
        _ = ch.Close()
        _ = conn.Close()
        return nil, nil, err
    }
    return conn, ch, nil
}

// Publish sends ev on the bookings exchange with ev.Event as routing key.
func (p *Publisher) Publish(ctx context.Context, ev q.BookingEvent) error {
    if p == nil || p.url == "" {
        return ErrDisabled
    }
    if err := ctx.Err(); err != nil {
        return err
    }
    msg, err := newPublishing(ev)
    if err != nil {
        return err
    }

    ch, err := p.channel(ctx)
    if err != nil {
        return err
    }
    if err := ch.PublishWithContext(ctx, q.BookingExchange, ev.Event, false, false, msg); err != nil {
        p.mu.Lock()
        if p.ch == ch {
            p.closeLocked()
        }
        p.mu.Unlock()
        return fmt.Errorf("publish %s: %w", ev.Event, err)
    }
    return nil
}

func newPublishing(ev q.BookingEvent) (amqp.Publishing, error) {
    if ev.Event != q.EventBookingCreated && ev.Event != q.EventBookingUpdated {
        return amqp.Publishing{}, fmt.Errorf("unknown event %q", ev.Event)
    }
    if ev.OccurredAt.IsZero() {
        ev.OccurredAt = time.Now().UTC()
    }
    body, err := json.Marshal(ev)
    if err != nil {
        return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
    }
    return amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    ev.OccurredAt,
        Type:         ev.Event,
        Body:         body,
    }, nil
}

// Close releases the connection.  Publish may be called again afterwards.
func (p *Publisher) Close() error {
    if p == nil {
        return nil
    }
    p.mu.Lock()
    defer p.mu.Unlock()
    p.closeLocked()
    return nil
}

func (p *Publisher) closeLocked() {
    if p.ch != nil {
        _ = p.ch.Close()
        p.ch = nil
    }
    if p.conn != nil {
        _ = p.conn.Close()
        p.conn = nil
    }
}
