package nats

import (
	"sync"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"gofiber-cms/pkg/logger"
)

// EventHandler callback function เมื่อได้รับ content event
type EventHandler func(msg *ContentEventMessage)

type registration struct {
	entity  string // "" = ทุก entity
	handler EventHandler
}

// Subscriber NATS core subscriber ของ content.> (ไม่ต้องมี durable consumer)
type Subscriber struct {
	conn       *nats.Conn
	sub        *nats.Subscription
	handlers   []registration
	handlersMu sync.RWMutex
	running    bool
	runningMu  sync.Mutex
}

func NewSubscriber(conn *nats.Conn) *Subscriber {
	return &Subscriber{conn: conn}
}

// OnEvent ลงทะเบียน handler ของ entity
func (s *Subscriber) OnEvent(entity string, handler EventHandler) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.handlers = append(s.handlers, registration{entity: entity, handler: handler})
}

func (s *Subscriber) Start() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if s.running {
		return nil
	}

	sub, err := s.conn.Subscribe(SubjectAll, s.handleMessage)
	if err != nil {
		return err
	}
	s.sub = sub
	s.running = true

	logger.Info("NATS subscriber started", "subject", SubjectAll)
	return nil
}

func (s *Subscriber) handleMessage(msg *nats.Msg) {
	var event ContentEventMessage
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error("Failed to parse content event", "subject", msg.Subject, "error", err)
		return
	}
	if event.Entity == "" {
		if entity, action, ok := ParseSubject(msg.Subject); ok {
			event.Entity, event.Action = entity, action
		}
	}

	s.handlersMu.RLock()
	handlers := s.handlers
	s.handlersMu.RUnlock()

	// เรียกตามลำดับเพื่อรักษาลำดับ event
	for _, reg := range handlers {
		if reg.entity != "" && reg.entity != event.Entity {
			continue
		}
		func(h EventHandler, e ContentEventMessage) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Event handler panicked", "error", r)
				}
			}()
			h(&e)
		}(reg.handler, event)
	}
}

func (s *Subscriber) Stop() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil {
			logger.Warn("Failed to unsubscribe", "error", err)
		}
	}
	logger.Info("NATS subscriber stopped")
	return nil
}

func (s *Subscriber) IsRunning() bool {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	return s.running
}
