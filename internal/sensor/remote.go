package sensor

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"plant_monitor/internal/logger"
	"plant_monitor/internal/models"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultDialTimeout = 3 * time.Second
	defaultDialRetries = 3
)

// Reply is one line sent back by a sensor server: either a reading or an error.
type Reply struct {
	models.SensorReading
	Error string `json:"error,omitempty"`
}

// Remote fetches readings from a sensor server. It keeps one connection open
// and redials after any failure.
type Remote struct {
	addr        string
	dialTimeout time.Duration
	retries     uint64
	log         *logger.Logger

	mu   sync.Mutex
	conn net.Conn
	rd   *bufio.Reader
}

func NewRemote(addr string, dialTimeout time.Duration, log *logger.Logger) *Remote {
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Remote{addr: addr, dialTimeout: dialTimeout, retries: defaultDialRetries, log: log}
}

func (r *Remote) Read(ctx context.Context) (models.SensorReading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil {
		if err := r.dial(ctx); err != nil {
			return models.SensorReading{}, err
		}
	}

	reading, err := r.roundTrip(ctx)
	if err != nil {
		r.dropLocked()
		return models.SensorReading{}, err
	}
	return reading, nil
}

// Close drops the current connection, if any.
func (r *Remote) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropLocked()
	return nil
}

func (r *Remote) dial(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxElapsedTime = 10 * time.Second

	d := net.Dialer{Timeout: r.dialTimeout}
	op := func() error {
		c, err := d.DialContext(ctx, "tcp", r.addr)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			r.log.Warnf("dial sensor server %s: %v", r.addr, err)
			return err
		}
		r.conn = c
		r.rd = bufio.NewReaderSize(c, 4096)
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, r.retries), ctx)); err != nil {
		return fmt.Errorf("connect to sensor server %s: %w", r.addr, err)
	}
	r.log.Infof("connected to sensor server %s", r.addr)
	return nil
}

func (r *Remote) roundTrip(ctx context.Context) (models.SensorReading, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(r.dialTimeout)
	}
	if err := r.conn.SetDeadline(deadline); err != nil {
		return models.SensorReading{}, fmt.Errorf("set deadline: %w", err)
	}

	if _, err := r.conn.Write([]byte(CommandGetData + "\n")); err != nil {
		return models.SensorReading{}, fmt.Errorf("send %s: %w", CommandGetData, err)
	}

	line, err := r.rd.ReadSlice('\n')
	if err != nil {
		if errors.Is(err, bufio.ErrBufferFull) {
			return models.SensorReading{}, fmt.Errorf("%w: line exceeds buffer", ErrBadReply)
		}
		return models.SensorReading{}, fmt.Errorf("read reply: %w", err)
	}
	return DecodeReply(line)
}

// DecodeReply parses one reply line.
func DecodeReply(line []byte) (models.SensorReading, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		return models.SensorReading{}, fmt.Errorf("%w: %q", ErrBadReply, line)
	}
	var rep Reply
	if err := json.Unmarshal(line, &rep); err != nil {
		return models.SensorReading{}, fmt.Errorf("%w: %v", ErrBadReply, err)
	}
	if rep.Error != "" {
		return models.SensorReading{}, fmt.Errorf("sensor server: %s", strings.TrimSpace(rep.Error))
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(line, &keys); err != nil {
		return models.SensorReading{}, fmt.Errorf("%w: %v", ErrBadReply, err)
	}
	for _, k := range replyKeys {
		if _, ok := keys[k]; !ok {
			return models.SensorReading{}, fmt.Errorf("%w: missing %q", ErrBadReply, k)
		}
	}
	return rep.SensorReading, nil
}

// replyKeys must all be present in a reading reply.
var replyKeys = []string{"temperature", "humidity", "moisture", "light", "ph"}

func (r *Remote) dropLocked() {
	if r.conn != nil {
		_ = r.conn.Close()
	}
	r.conn = nil
	r.rd = nil
}
