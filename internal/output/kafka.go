package output

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/jimzijun/shechill-order-summary/internal/models"
)

// KafkaOutput publishes each report row as a JSON message, one topic per
// report table.
type KafkaOutput struct {
	producer    sarama.SyncProducer
	topicPrefix string
}

func NewKafkaOutput(cfg *models.Config) (*KafkaOutput, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // Must be true for SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	brokerList := strings.Split(cfg.KafkaBrokerList, ",")

	producer, err := sarama.NewSyncProducer(brokerList, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	log.Printf("Sarama producer created successfully with brokers %v", brokerList)
	return &KafkaOutput{producer: producer, topicPrefix: cfg.KafkaTopicPrefix}, nil
}

func (k *KafkaOutput) WriteReport(report models.DayReport) error {
	for _, row := range scheduleRows(report) {
		if err := k.publish("pickup-schedule", row); err != nil {
			return err
		}
	}
	for _, row := range productionRows(report) {
		if err := k.publish("kitchen-production", row); err != nil {
			return err
		}
	}
	return nil
}

func (k *KafkaOutput) publish(topic string, row interface{}) error {
	if k.producer == nil {
		return fmt.Errorf("Kafka producer is closed")
	}

	msg, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to serialize row for topic %s: %w", topic, err)
	}

	_, _, err = k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topicPrefix + topic,
		Value: sarama.ByteEncoder(msg),
	})
	return err
}

func (k *KafkaOutput) Close() error {
	if k.producer == nil {
		return nil
	}
	err := k.producer.Close()
	k.producer = nil
	return err
}
