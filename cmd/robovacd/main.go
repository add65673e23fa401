// Command robovacd bridges one robot vacuum to Home Assistant: it announces
// the entity tables via MQTT discovery, relays state from the device-side
// topics, forwards commands back, and serves a small HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"sync/atomic"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"
	mochi "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/mochi-mqtt/server/v2/packets"
	"github.com/peterbourgon/ff/v3"

	"github.com/ilievs/robovac/core"
	"github.com/ilievs/robovac/mqtt"
	"github.com/ilievs/robovac/system"
	"github.com/ilievs/robovac/web"
)

// Options contains program options that can be set via command-line flags
// or ROBOVAC_* environment variables.
type Options struct {
	BrokerURL  string
	Embedded   bool
	MQTTAddr   string
	HTTPAddr   string
	DeviceID   string
	DeviceName string
	Model      string
}

func main() {
	var opts Options
	fs := flag.NewFlagSet("robovacd", flag.ExitOnError)
	fs.StringVar(&opts.BrokerURL, "broker", "mqtt://localhost:1883", "URL of the MQTT broker to connect to")
	fs.BoolVar(&opts.Embedded, "embedded-broker", false, "Run an embedded MQTT broker instead of connecting out")
	fs.StringVar(&opts.MQTTAddr, "mqtt-addr", ":1883", "Listen address of the embedded broker")
	fs.StringVar(&opts.HTTPAddr, "http-addr", ":8080", "Listen address of the HTTP API")
	fs.StringVar(&opts.DeviceID, "device-id", "vacuum_1", "Node id of the vacuum, used in all topics")
	fs.StringVar(&opts.DeviceName, "device-name", "Robot vacuum", "Display name of the device")
	fs.StringVar(&opts.Model, "model", "", "Device model reported in discovery")

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("ROBOVAC")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	coordinator := core.NewCoordinator(opts.DeviceID)
	ingest := mqtt.NewStateIngest(coordinator)
	device := mqtt.DeviceInfo{
		Identifiers: []string{opts.DeviceID},
		Name:        opts.DeviceName,
		Model:       opts.Model,
	}

	var bridge *mqtt.Bridge
	var api core.CommandSender
	if opts.Embedded {
		bridge, api = runEmbedded(ctx, opts, coordinator, ingest, device)
	} else {
		bridge, api = runExternal(ctx, opts, coordinator, ingest, device)
	}

	if err := bridge.PublishDiscovery(); err != nil {
		slog.Error("failed to publish discovery", "error", err)
	}
	if err := bridge.PublishAvailability(true); err != nil {
		slog.Error("failed to publish availability", "error", err)
	}
	go bridge.Run(ctx)

	server := web.NewServer(coordinator, api, bridge.RoomSelect(), bridge.CleanRoomButton())
	go server.Start(opts.HTTPAddr)

	system.WaitForOsSignal()
	bridge.PublishAvailability(false)
}

// route hands one received message to state ingestion and the bridge.
func route(ctx context.Context, bridge *mqtt.Bridge, ingest *mqtt.StateIngest, topic string, payload []byte) {
	if err := ingest.HandleMessage(topic, payload); err != nil {
		slog.Error("failed to ingest device message", "topic", topic, "error", err)
		return
	}
	if err := bridge.HandleMessage(ctx, topic, payload); err != nil {
		slog.Error("failed to handle command", "topic", topic, "error", err)
	}
}

// runEmbedded serves an embedded broker and attaches the bridge through
// its inline client.
func runEmbedded(ctx context.Context, opts Options, coordinator *core.Coordinator,
	ingest *mqtt.StateIngest, device mqtt.DeviceInfo) (*mqtt.Bridge, core.CommandSender) {

	server := mochi.New(&mochi.Options{
		InlineClient: true,
	})

	err := server.AddHook(new(auth.Hook), &auth.Options{
		Ledger: &auth.Ledger{
			Auth: auth.AuthRules{ // Auth disallows all by default
				{Remote: "127.0.0.1:*", Allow: true},
				{Remote: "localhost:*", Allow: true},
				{Username: "robovac", Password: "robovac", Allow: true},
			},
			ACL: auth.ACLRules{
				{Filters: auth.Filters{"#": auth.ReadWrite}},
			},
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	tcp := listeners.NewTCP(listeners.Config{ID: "t1", Address: opts.MQTTAddr})
	if err := server.AddListener(tcp); err != nil {
		log.Fatal(err)
	}

	go func() {
		if err := server.Serve(); err != nil {
			log.Fatal(err)
		}
	}()

	publisher := mqtt.NewMochiPublisher(server)
	api := mqtt.NewCommandRelay(publisher, opts.DeviceID)
	bridge := mqtt.NewBridge(coordinator, api, publisher, device)

	subscriberID := 1
	for _, topic := range append(bridge.CommandTopics(), ingest.Topics()...) {
		err := server.Subscribe(topic, subscriberID,
			func(cl *mochi.Client, sub packets.Subscription, pk packets.Packet) {
				route(ctx, bridge, ingest, pk.TopicName, pk.Payload)
			})
		if err != nil {
			log.Fatal(err)
		}
		subscriberID++
	}

	return bridge, api
}

// runExternal connects to an external broker via autopaho.
func runExternal(ctx context.Context, opts Options, coordinator *core.Coordinator,
	ingest *mqtt.StateIngest, device mqtt.DeviceInfo) (*mqtt.Bridge, core.CommandSender) {

	u, err := url.Parse(opts.BrokerURL)
	if err != nil {
		log.Fatal(err)
	}

	subTopics := append(mqtt.CommandTopicsFor(opts.DeviceID), ingest.Topics()...)

	// The message handler runs on the client's goroutine and can fire
	// before the bridge is wired up, so it goes through an atomic pointer.
	var bridge atomic.Pointer[mqtt.Bridge]

	cliCfg := autopaho.ClientConfig{
		ServerUrls:                    []*url.URL{u},
		KeepAlive:                     20,
		CleanStartOnInitialConnection: false,
		SessionExpiryInterval:         60,
		OnConnectionUp: func(cm *autopaho.ConnectionManager, connAck *paho.Connack) {
			slog.Info("mqtt connection up")
			// Subscribing here ensures the subscriptions are reestablished
			// if the connection drops.
			var subs []paho.SubscribeOptions
			for _, topic := range subTopics {
				subs = append(subs, paho.SubscribeOptions{Topic: topic, QoS: 1})
			}
			if _, err := cm.Subscribe(context.Background(), &paho.Subscribe{
				Subscriptions: subs,
			}); err != nil {
				slog.Error("failed to subscribe, no messages will be received", "error", err)
			}
		},
		OnConnectError: func(err error) {
			slog.Error("error whilst attempting connection", "error", err)
		},
		ClientConfig: paho.ClientConfig{
			ClientID: "robovacd-" + opts.DeviceID,
			OnPublishReceived: []func(paho.PublishReceived) (bool, error){
				func(pr paho.PublishReceived) (bool, error) {
					b := bridge.Load()
					if b == nil {
						return true, nil
					}
					route(ctx, b, ingest, pr.Packet.Topic, pr.Packet.Payload)
					return true, nil
				}},
			OnClientError: func(err error) { slog.Error("mqtt client error", "error", err) },
			OnServerDisconnect: func(d *paho.Disconnect) {
				slog.Error("server requested disconnect", "reason_code", d.ReasonCode)
			},
		},
	}

	conn, err := autopaho.NewConnection(ctx, cliCfg)
	if err != nil {
		log.Fatal(err)
	}

	publisher := mqtt.NewPahoPublisher(ctx, conn)
	api := mqtt.NewCommandRelay(publisher, opts.DeviceID)
	b := mqtt.NewBridge(coordinator, api, publisher, device)
	bridge.Store(b)

	if err := conn.AwaitConnection(ctx); err != nil {
		log.Fatal(err)
	}

	return b, api
}
