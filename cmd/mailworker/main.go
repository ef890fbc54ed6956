package main

import (
	"log"

	"github.com/campuslink/portal_service/config"
	"github.com/campuslink/portal_service/infra/queue"
	"github.com/campuslink/portal_service/internal/api/rest/handlers"
	"github.com/campuslink/portal_service/internal/services"
)

func main() {
	cfg := config.LoadConfig()

	log.Println("Mail worker starting...")
	log.Printf("KafkaBroker=%s Topic=%s GroupID=%s\n",
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
	)

	mailService := services.NewMailService(
		cfg.SMTPUser,
		cfg.SMTPPassword,
		cfg.MailFrom,
		cfg.MailFromName,
	)

	handler := handlers.NewMailHandler(mailService)

	consumer := queue.NewKafkaConsumer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
		handler,
	)

	log.Println("Mail worker listening for events...")
	consumer.Listen()
}
