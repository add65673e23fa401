// Command vacsim plays the device side for robovacd: it publishes a
// randomized status snapshot every second, announces a room table once,
// and logs every command it receives.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"
	"github.com/peterbourgon/ff/v3"

	"github.com/ilievs/robovac/core"
	"github.com/ilievs/robovac/mqtt"
)

func main() {
	var brokerURL, deviceID string
	fs := flag.NewFlagSet("vacsim", flag.ExitOnError)
	fs.StringVar(&brokerURL, "broker", "mqtt://localhost:1883", "URL of the MQTT broker")
	fs.StringVar(&deviceID, "device-id", "vacuum_1", "Node id of the simulated vacuum")

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("ROBOVAC")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// App will run until cancelled by user (e.g. ctrl-c)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	u, err := url.Parse(brokerURL)
	if err != nil {
		panic(err)
	}

	topics := mqtt.Topics{Node: deviceID}

	cliCfg := autopaho.ClientConfig{
		ServerUrls:                    []*url.URL{u},
		KeepAlive:                     20,
		CleanStartOnInitialConnection: false,
		SessionExpiryInterval:         60,
		OnConnectionUp: func(cm *autopaho.ConnectionManager, connAck *paho.Connack) {
			fmt.Println("mqtt connection up")
			if _, err := cm.Subscribe(context.Background(), &paho.Subscribe{
				Subscriptions: []paho.SubscribeOptions{
					{Topic: topics.DeviceCommand(), QoS: 1},
				},
			}); err != nil {
				fmt.Printf("failed to subscribe (%s). This is likely to mean no commands will be received.\n", err)
			}
		},
		OnConnectError: func(err error) {
			fmt.Printf("error whilst attempting connection: %s\n", err)
		},
		ClientConfig: paho.ClientConfig{
			ClientID: "vacsim-" + deviceID,
			OnPublishReceived: []func(paho.PublishReceived) (bool, error){
				func(pr paho.PublishReceived) (bool, error) {
					var cmd core.Command
					if err := json.Unmarshal(pr.Packet.Payload, &cmd); err != nil {
						fmt.Printf("received unparsable command: %s\n", pr.Packet.Payload)
						return true, nil
					}
					fmt.Printf("received command %s %v\n", cmd.Name, cmd.Params)
					return true, nil
				}},
			OnClientError: func(err error) { fmt.Printf("client error: %s\n", err) },
		},
	}

	c, err := autopaho.NewConnection(ctx, cliCfg)
	if err != nil {
		panic(err)
	}
	if err = c.AwaitConnection(ctx); err != nil {
		panic(err)
	}

	rooms, err := json.Marshal(map[string]any{
		"map_id": 1,
		"rooms":  map[int]string{16: "Kitchen", 17: "Living Room", 18: "Bedroom"},
	})
	if err != nil {
		panic(err)
	}
	if _, err := c.Publish(ctx, &paho.Publish{
		QoS:     1,
		Retain:  true,
		Topic:   topics.DeviceRooms(),
		Payload: rooms,
	}); err != nil {
		log.Println("Failed to publish room table:", err)
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			prop := randomProp()
			payload, err := json.Marshal(prop)
			if err != nil {
				log.Println("Failed to convert prop to JSON:", err)
				continue
			}

			if _, err := c.Publish(ctx, &paho.Publish{
				QoS:     1,
				Topic:   topics.DeviceState(),
				Payload: payload,
			}); err != nil {
				if ctx.Err() == nil {
					continue
				}
				return
			}

			log.Println("published state: battery", prop.Status.Battery, "state", prop.Status.State)
		case <-ctx.Done():
			return
		}
	}
}

func randomProp() core.DeviceProp {
	states := []core.StateCode{
		core.StateIdle, core.StateCleaning, core.StateCharging,
		core.StateChargingComplete, core.StateSegmentCleaning,
	}
	water := rand.Intn(100)
	rssi := -(rand.Intn(40) + 30)
	volume := 50
	passes := 1
	mainBrush := 3600 * (rand.Intn(100) + 1)

	prop := core.DeviceProp{}
	prop.Status.State = states[rand.Intn(len(states))]
	prop.Status.Battery = rand.Intn(50) + 50
	prop.Status.CleanTime = rand.Intn(3600)
	prop.Status.CleanArea = rand.Intn(50000)
	prop.Status.WaterPercent = &water
	prop.Status.WifiRSSI = &rssi
	prop.Status.SoundVolume = &volume
	prop.Status.CleaningPasses = &passes
	prop.Status.WaterBoxAttached = rand.Intn(2) == 1
	prop.Consumable.MainBrushTimeLeft = &mainBrush
	return prop
}
