// internal/notify/notifier.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fiche-manager/internal/common/config"
	"fiche-manager/internal/common/errors"
	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// EmailSender is the SES surface the notifier uses.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// EventPublisher is the SNS surface the notifier uses.
type EventPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// Notifier announces generated fiches to the client contact (email) and to
// downstream systems (event topic). Both channels are best-effort: failures
// are logged and reported but never fail the generation that triggered them.
type Notifier struct {
	ses    EmailSender
	sns    EventPublisher
	cfg    config.IntegrationConfig
	logger logger.Logger
}

func New(sesClient EmailSender, snsClient EventPublisher, cfg config.IntegrationConfig, log logger.Logger) *Notifier {
	return &Notifier{ses: sesClient, sns: snsClient, cfg: cfg, logger: log}
}

// ficheEvent is the payload published on the event topic.
type ficheEvent struct {
	OfferID     string    `json:"offerId"`
	ClientID    string    `json:"clientId"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	PublicURL   string    `json:"publicUrl,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// FicheGenerated notifies both channels about a freshly generated document.
// The returned errors are informational; callers log and continue.
func (n *Notifier) FicheGenerated(ctx context.Context, client *models.Client, offer *models.Offer, fiche *models.Fiche) []error {
	var errs []error

	if err := n.sendEmail(ctx, client, fiche); err != nil {
		n.logger.WithError(err).Warn("fiche email failed", map[string]interface{}{
			"offer_id": offer.ID,
			"kind":     string(fiche.Kind),
		})
		errs = append(errs, err)
	}

	if err := n.publishEvent(ctx, offer, fiche); err != nil {
		n.logger.WithError(err).Warn("fiche event publish failed", map[string]interface{}{
			"offer_id": offer.ID,
			"kind":     string(fiche.Kind),
		})
		errs = append(errs, err)
	}

	return errs
}

func (n *Notifier) sendEmail(ctx context.Context, client *models.Client, fiche *models.Fiche) error {
	if !n.cfg.AWS.SES.Enabled {
		return nil
	}
	if client == nil || client.ContactEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("Votre document \"%s\" est disponible", ficheLabel(fiche.Kind))
	body := fmt.Sprintf(
		"Bonjour %s,\n\nLe document \"%s\" pour %s vient d'être généré.\n\nConsultez-le ici : %s\n",
		client.ContactName, ficheLabel(fiche.Kind), client.Name, fiche.PublicURL)

	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.cfg.AWS.SES.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{client.ContactEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return errors.NewNotificationSendFailedError("ses", err)
	}
	return nil
}

func (n *Notifier) publishEvent(ctx context.Context, offer *models.Offer, fiche *models.Fiche) error {
	if !n.cfg.AWS.SNS.Enabled {
		return nil
	}

	payload, err := json.Marshal(ficheEvent{
		OfferID:     offer.ID,
		ClientID:    offer.ClientID,
		Kind:        string(fiche.Kind),
		Status:      string(fiche.Status),
		PublicURL:   fiche.PublicURL,
		GeneratedAt: fiche.GeneratedAt,
	})
	if err != nil {
		return errors.NewNotificationSendFailedError("sns", err)
	}

	_, err = n.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.cfg.AWS.SNS.TopicARN),
		Subject:  aws.String("fiche.generated"),
		Message:  aws.String(string(payload)),
	})
	if err != nil {
		return errors.NewNotificationSendFailedError("sns", err)
	}
	return nil
}

func ficheLabel(kind models.FicheKind) string {
	switch kind {
	case models.FicheProgramme:
		return "Programme de formation"
	case models.FichePlan:
		return "Plan d'intervention"
	case models.FichePresence:
		return "Feuille de présence"
	case models.FicheEvaluation:
		return "Fiche d'évaluation"
	default:
		return string(kind)
	}
}
