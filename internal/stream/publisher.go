// Package stream publishes measured samples over a websocket so a
// dashboard can follow a run live. Like the Influx export, a nil
// *Publisher is valid and drops everything.
package stream

import (
	"time"

	"github.com/gorilla/websocket"

	"mlrunner/internal/bench"
	"mlrunner/internal/cli"
)

const (
	sendBuffer       = 100
	handshakeTimeout = 10 * time.Second
	writeWait        = 10 * time.Second
)

// SampleMessage is the wire format for one published sample.
type SampleMessage struct {
	RunID     string  `json:"run_id"`
	Model     string  `json:"model"`
	Index     int     `json:"index"`
	OffsetMs  float64 `json:"offset_ms"`
	LatencyMs float64 `json:"latency_ms"`
	EngineMs  float64 `json:"engine_ms"`
}

// Publisher pushes samples to a websocket endpoint from a single
// writer goroutine. Publish never blocks the measurement loop: when
// the buffer is full the sample is dropped.
type Publisher struct {
	conn   *websocket.Conn
	runId  string
	sendCh chan SampleMessage
	done   chan struct{}
}

// Dial connects to the streaming endpoint. Returns nil when the URL is
// empty or the dial fails; the run proceeds without streaming.
func Dial(wsURL, runId string) *Publisher {
	if wsURL == "" {
		return nil
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.Dial(wsURL, nil)
	if err != nil {
		cli.Warnf("stream endpoint not available at %s, streaming disabled: %v", wsURL, err)
		return nil
	}

	cli.Infof("streaming samples to %s", wsURL)

	p := &Publisher{
		conn:   conn,
		runId:  runId,
		sendCh: make(chan SampleMessage, sendBuffer),
		done:   make(chan struct{}),
	}
	go p.writePump()
	return p
}

// Publish enqueues one sample. Safe on a nil receiver.
func (p *Publisher) Publish(model string, index int, s bench.Sample) {
	if p == nil {
		return
	}

	msg := SampleMessage{
		RunID:     p.runId,
		Model:     model,
		Index:     index,
		OffsetMs:  s.OffsetMs,
		LatencyMs: s.LatencyMs,
		EngineMs:  s.EngineMs,
	}

	select {
	case p.sendCh <- msg:
	case <-p.done:
	default:
		// buffer full, drop rather than stall the run
	}
}

// Close flushes queued samples and closes the connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	close(p.sendCh)
	<-p.done
}

func (p *Publisher) writePump() {
	defer func() {
		_ = p.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		_ = p.conn.Close()
		close(p.done)
	}()

	for msg := range p.sendCh {
		_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := p.conn.WriteJSON(msg); err != nil {
			cli.Warnf("stream write error: %v", err)
			return
		}
	}
}
