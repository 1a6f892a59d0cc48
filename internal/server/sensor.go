package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"plant_monitor/internal/logger"
	"plant_monitor/internal/sensor"
)

const (
	sensorReadTimeout  = 5 * time.Second
	sensorIdleTimeout  = 5 * time.Minute
	sensorWriteTimeout = 5 * time.Second
	maxCommandBytes    = 1024
)

type errorReply struct {
	Error string `json:"error"`
}

// SensorServer answers GET_DATA requests over TCP with one JSON reading per line.
type SensorServer struct {
	src sensor.Source
	log *logger.Logger

	mu    sync.Mutex
	ln    net.Listener
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

func NewSensorServer(src sensor.Source, log *logger.Logger) *SensorServer {
	if log == nil {
		log = logger.Nop()
	}
	return &SensorServer{src: src, log: log, conns: make(map[net.Conn]struct{})}
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *SensorServer) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then closes every
// open connection and waits for their handlers.
func (s *SensorServer) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.log.Infof("sensor server listening on %s", ln.Addr())

	stop := context.AfterFunc(ctx, s.closeAll)
	defer stop()

	for {
		c, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			s.closeAll()
			s.wg.Wait()
			return fmt.Errorf("accept: %w", err)
		}
		if !s.track(c) {
			_ = c.Close()
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(c)
			s.handle(ctx, c)
		}()
	}
}

// Addr returns the bound address once serving.
func (s *SensorServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *SensorServer) handle(ctx context.Context, c net.Conn) {
	remote := c.RemoteAddr().String()
	s.log.Debugf("sensor client connected: %s", remote)
	defer s.log.Debugf("sensor client disconnected: %s", remote)

	sc := bufio.NewScanner(c)
	sc.Buffer(make([]byte, 0, maxCommandBytes), maxCommandBytes)

	for {
		_ = c.SetReadDeadline(time.Now().Add(sensorIdleTimeout))
		if !sc.Scan() {
			if err := sc.Err(); err != nil && ctx.Err() == nil {
				s.log.Debugf("sensor client %s: %v", remote, err)
			}
			return
		}

		cmd := strings.ToUpper(strings.TrimSpace(sc.Text()))
		if cmd == "" {
			continue
		}

		var reply any
		switch cmd {
		case sensor.CommandGetData:
			rctx, cancel := context.WithTimeout(ctx, sensorReadTimeout)
			r, err := s.src.Read(rctx)
			cancel()
			if err != nil {
				s.log.Warnf("sensor read for %s: %v", remote, err)
				reply = errorReply{Error: err.Error()}
			} else {
				reply = r
			}
		default:
			reply = errorReply{Error: "unknown command"}
		}

		if err := s.write(c, reply); err != nil {
			s.log.Debugf("write to %s: %v", remote, err)
			return
		}
	}
}

func (s *SensorServer) write(c net.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = c.SetWriteDeadline(time.Now().Add(sensorWriteTimeout))
	_, err = c.Write(append(b, '\n'))
	return err
}

func (s *SensorServer) track(c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns == nil {
		return false
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *SensorServer) untrack(c net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = c.Close()
	delete(s.conns, c)
}

func (s *SensorServer) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		_ = s.ln.Close()
	}
	for c := range s.conns {
		_ = c.Close()
	}
	s.conns = nil
}
