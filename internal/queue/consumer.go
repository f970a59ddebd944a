package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/hotel-booking-api/internal/logger"
)

const bookingLogQueue = "booking.log"

// StartBookingConsumer binds a durable queue to every booking.* event and
// appends one line per delivery to <logDir>/booking.log.  It reconnects
// with backoff until ctx is cancelled, then returns ctx.Err().
func StartBookingConsumer(ctx context.Context, url, logDir string) error {
    log := logger.WithFields("component", "booking-consumer")
    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Warn("dial broker failed", "error", err, "retry_in", backoff.String())
            select {
            case <-ctx.Done():
                return ctx.Err()
            case <-time.After(backoff):
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = consumeLoop(ctx, conn, logDir)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warn("consume loop ended; reconnecting", "error", err)
        select {
        case <-ctx.Done():
            return ctx.Err()
        case <-time.After(2 * time.Second):
        }
    }
}

// DeclareTopology declares the exchange, the log queue and its binding.  It
// is idempotent and shared with the publisher.
func DeclareTopology(ch *amqp.Channel) error {
    if err := ch.ExchangeDeclare(BookingExchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
        return fmt.Errorf("exchange declare: %w", err)
    }
    if _, err := ch.QueueDeclare(bookingLogQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    if err := ch.QueueBind(bookingLogQueue, "booking.*", BookingExchange, false, nil); err != nil {
        return fmt.Errorf("queue bind: %w", err)
    }
    return nil
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logDir string) error {
    log := logger.WithFields("component", "booking-consumer")
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warn("set QoS failed", "error", err)
    }
    if err := DeclareTopology(ch); err != nil {
        return err
    }

    msgs, err := ch.ConsumeWithContext(ctx, bookingLogQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := handleMessage(d.Body, logDir); err != nil {
            log.Error("handle message failed", "error", err, "routing_key", d.RoutingKey)
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, logDir string) error {
    var ev BookingEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if err := os.MkdirAll(logDir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", logDir, err)
    }
    f, err := os.OpenFile(filepath.Join(logDir, "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(FormatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatLine renders ev as one booking.log line, newline included.
func FormatLine(ev BookingEvent) string {
    rooms := make([]string, 0, len(ev.Rooms))
    for _, r := range ev.Rooms {
        rooms = append(rooms, fmt.Sprintf("%d:%s", r.RoomID, r.Status))
    }
    return fmt.Sprintf("[%s] %s | booking_id=%d | user_id=%d | actor_id=%d | dates=%s..%s | rooms=[%s]\n",
        ev.OccurredAt.UTC().Format(time.RFC3339), ev.Event, ev.BookingID, ev.UserID, ev.ActorID,
        ev.StartDate, ev.EndDate, strings.Join(rooms, ","))
}
