package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/sirupsen/logrus"

	"image-classify-bot/internal/models"
)

// statusTemplates are the fixed phrasings a published status is drawn from,
// parameterized by (article+noun, percentage).
var statusTemplates = []string{
	"That's %[1]s, I'm like %[2]s sure.",
	"I found %[1]s! At least, I'm %[2]s sure I did.",
	"Is that %[1]s? I think it is! About %[2]s sure.",
	"I'm only %[2]s confident in saying this, but what %[1]s!",
	"Ooooh, %[1]s... I mean, I think it is. With %[2]s of certainty.",
}

// Announcer turns the top prediction into a templated status update and
// publishes it with the image attached.
type Announcer struct {
	publisher StatusPublisher
	choose    func(n int) int
	log       *logrus.Logger
}

func NewAnnouncer(publisher StatusPublisher, log *logrus.Logger) *Announcer {
	return &Announcer{
		publisher: publisher,
		choose:    rand.Intn,
		log:       log,
	}
}

// Announce publishes the top-ranked prediction and returns the public URL of
// the post. results must be non-empty; the orchestrator enforces that.
// Publishing failures are fatal to the request, never retried.
func (a *Announcer) Announce(ctx context.Context, results []models.Prediction, imagePath string) (string, error) {
	text := a.compose(results[0])
	a.log.WithField("status_contents", text).Info("publishing status update")

	url, err := a.publisher.PublishWithMedia(ctx, text, imagePath)
	if err != nil {
		return "", models.ErrPublishFailed(err)
	}
	return url, nil
}

func (a *Announcer) compose(top models.Prediction) string {
	noun := strings.ToLower(strings.Split(top.Label, ", ")[0])
	subject := articleFor(noun) + noun
	percentage := fmt.Sprintf("%d%%", int(top.Score*100))
	return fmt.Sprintf(statusTemplates[a.choose(len(statusTemplates))], subject, percentage)
}

// articleFor picks "a "/"an " for singular nouns and nothing for nouns that
// are already plural ("drums" must not become "a drums").
func articleFor(noun string) string {
	if noun == "" {
		return ""
	}
	if inflection.Singular(noun) != noun {
		return ""
	}
	if strings.ContainsRune("aeiou", rune(noun[0])) {
		return "an "
	}
	return "a "
}
