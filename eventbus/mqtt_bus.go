/*
 * Copyright 2024 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package eventbus

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/msgflow/pipeline/utils/json"
	"github.com/msgflow/pipeline/utils/maps"
)

// defaultTopics maps each EventKind to the broker topic a cluster of
// interpreter instances publishes reload triggers on.
var defaultTopics = map[EventKind]string{
	RulesChanged:                    "rules/changed",
	PipelinesChanged:                "pipelines/changed",
	PipelineStreamAssignmentChanged: "pipelines/stream-assignment/changed",
}

// MQTTConfig configures MQTTBus's broker connection, the same shape the
// teacher's mqtt client node configuration carries.
type MQTTConfig struct {
	Server               string
	Username             string
	Password             string
	ClientID             string
	MaxReconnectInterval time.Duration
	CleanSession         bool
	// Topics overrides the default topic names per EventKind. Any kind
	// absent from this map falls back to defaultTopics.
	Topics map[EventKind]string
}

// MQTTBus is a Bus backed by an MQTT broker: Subscribe opens one broker
// subscription per EventKind and decodes each message payload as JSON
// into an Event before invoking the handler.
type MQTTBus struct {
	client paho.Client
	topics map[EventKind]string
}

// NewMQTTConfigFromMap decodes a generic configuration map — the shape a
// host gets back from unmarshaling its own config file into
// map[string]interface{} — into an MQTTConfig, the same way the teacher's
// mqtt endpoint decodes types.Configuration into its typed Config with
// maps.Map2Struct rather than requiring every caller to already have a
// concrete MQTTConfig literal.
func NewMQTTConfigFromMap(configuration map[string]interface{}) (MQTTConfig, error) {
	var cfg MQTTConfig
	if err := maps.Map2Struct(configuration, &cfg); err != nil {
		return MQTTConfig{}, fmt.Errorf("eventbus: decode mqtt config: %w", err)
	}
	return cfg, nil
}

// NewMQTTBus connects to the broker described by cfg and returns a Bus
// ready for Subscribe calls.
func NewMQTTBus(cfg MQTTConfig) (*MQTTBus, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Server)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetCleanSession(cfg.CleanSession)
	if cfg.ClientID != "" {
		opts.SetClientID(cfg.ClientID)
	}
	if cfg.MaxReconnectInterval <= 0 {
		cfg.MaxReconnectInterval = 60 * time.Second
	}
	opts.SetMaxReconnectInterval(cfg.MaxReconnectInterval)

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("eventbus: connect to mqtt broker %s: %w", cfg.Server, token.Error())
	}

	topics := make(map[EventKind]string, len(defaultTopics))
	for k, v := range defaultTopics {
		topics[k] = v
	}
	for k, v := range cfg.Topics {
		topics[k] = v
	}
	return &MQTTBus{client: client, topics: topics}, nil
}

// Subscribe implements Bus, decoding each retained or live message on
// kind's topic as a JSON Event before calling handler.
func (b *MQTTBus) Subscribe(kind EventKind, handler Handler) error {
	topic, ok := b.topics[kind]
	if !ok {
		return fmt.Errorf("eventbus: no topic configured for %s", kind)
	}
	token := b.client.Subscribe(topic, 1, func(_ paho.Client, msg paho.Message) {
		var evt Event
		if err := json.Unmarshal(msg.Payload(), &evt); err != nil {
			evt = Event{}
		}
		evt.Kind = kind
		handler(evt)
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("eventbus: subscribe %s: %w", topic, token.Error())
	}
	return nil
}

// Close disconnects from the broker, waiting up to 250ms for in-flight
// publishes to drain.
func (b *MQTTBus) Close() error {
	b.client.Disconnect(250)
	return nil
}
