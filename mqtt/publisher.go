package mqtt

import (
	"context"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"
	mochi "github.com/mochi-mqtt/server/v2"
)

// Publisher is the narrow broker surface the bridge needs.
type Publisher interface {
	Publish(topic string, payload []byte, retain bool) error
}

// MochiPublisher publishes through an embedded broker's inline client.
type MochiPublisher struct {
	server *mochi.Server
}

func NewMochiPublisher(server *mochi.Server) *MochiPublisher {
	return &MochiPublisher{
		server,
	}
}

func (m *MochiPublisher) Publish(topic string, payload []byte, retain bool) error {
	err := m.server.Publish(topic, payload, retain, 0)
	if err != nil {
		return err
	}

	return nil
}

// PahoPublisher publishes through an external broker connection.
type PahoPublisher struct {
	ctx  context.Context
	conn *autopaho.ConnectionManager
}

func NewPahoPublisher(ctx context.Context, conn *autopaho.ConnectionManager) *PahoPublisher {
	return &PahoPublisher{ctx: ctx, conn: conn}
}

func (p *PahoPublisher) Publish(topic string, payload []byte, retain bool) error {
	_, err := p.conn.Publish(p.ctx, &paho.Publish{
		QoS:     1,
		Topic:   topic,
		Retain:  retain,
		Payload: payload,
	})
	return err
}
