// этот код не зависит от приложения,
// и нужен только для ручной проверки приёма заявок с кухонного терминала через кафку
package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/segmentio/kafka-go"
)

func main() {
	// значения по умолчанию совпадают с config/config.yaml
	brokers := flag.String("brokers", "localhost:9092", "comma-separated kafka brokers")
	topic := flag.String("topic", "kitchen.order-submissions", "submissions topic")
	flag.Parse()

	// заявка: смена 1, две единицы позиции 20 и одна позиция 10
	message := `{
           "shift_id": 1,
           "customer_id": "kitchen-terminal-1",
           "item_ids": [20, 20, 10]
        }`

	writer := &kafka.Writer{
		Addr:     kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:    *topic,
		Balancer: &kafka.LeastBytes{},
	}
	defer writer.Close()

	log.Println("Sending kitchen submission to Kafka...")
	err := writer.WriteMessages(context.Background(),
		kafka.Message{
			Value: []byte(message),
		},
	)
	if err != nil {
		log.Fatalf("Failed to write message: %v", err)
	}

	log.Println("Message sent successfully!")
}
