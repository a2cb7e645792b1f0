package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-keeper/internal/notifier"
	"github.com/mauv0809/duel-keeper/internal/pubsub"
)

// DeliverNotificationHandler receives relayed notification intents from a
// Pub/Sub push subscription and hands them to the final notifier.
// Undeliverable recipients are acknowledged; transport failures are not, so
// Pub/Sub redelivers them.
func DeliverNotificationHandler(pubsubClient pubsub.PubSubClient, deliverer notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received notification message", "body", string(bodyBytes))

		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"`
			} `json:"message"`
		}

		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		var intent notifier.Intent
		if err := pubsubClient.ProcessMessage(rawData, &intent); err != nil {
			http.Error(w, "Invalid notification payload", http.StatusBadRequest)
			return
		}

		res, err := deliverer.Notify(r.Context(), intent)
		if err != nil {
			log.Error("Failed to deliver relayed notification", "error", err, "id", intent.ID)
			http.Error(w, "Delivery failed", http.StatusBadGateway)
			return
		}
		log.Info("Relayed notification handled", "id", intent.ID, "kind", intent.Kind, "result", res)
		w.Write([]byte("OK"))
	}
}
