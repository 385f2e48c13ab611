package xmpp

import (
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-xmpp"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/river-twin/fleet"
)

var ErrNotConfigured = errors.New("missing xmpp config")

type (
	Config struct {
		Host     string
		Jid      string
		Password string
		To       string
	}

	// Xmpp sends halt alerts to a chat contact.
	Xmpp struct {
		Config Config
	}
)

func serverName(jid string) string {
	parts := strings.Split(jid, "@")
	return parts[len(parts)-1]
}

func (x Xmpp) Enabled() bool {
	return len(x.Config.Jid) > 0 && len(x.Config.Password) > 0 && len(x.Config.To) > 0
}

// HaltMessage describes the ships halted on a step.
func HaltMessage(hour int, wind float64, halted []fleet.Ship) string {
	names := make([]string, len(halted))
	for i, s := range halted {
		names[i] = s.Name
	}
	return fmt.Sprintf("Hour %d: wind %.1f km/h, %s: %s", hour, wind, fleet.StatusHalted, strings.Join(names, ", "))
}

func (x Xmpp) Send(message string) error {
	if !x.Enabled() {
		return ErrNotConfigured
	}

	host := x.Config.Host
	if len(host) == 0 {
		host = serverName(x.Config.Jid)
	}

	xmpp.DefaultConfig = tls.Config{
		InsecureSkipVerify: true,
	}

	options := xmpp.Options{
		Host:          host,
		User:          x.Config.Jid,
		Password:      x.Config.Password,
		NoTLS:         true,
		StartTLS:      true,
		Debug:         false,
		Session:       false,
		Status:        "xa",
		StatusMessage: "Watching the Scheldt",
	}

	talk, err := options.NewClient()
	if err != nil {
		return fmt.Errorf("connecting to xmpp: %w", err)
	}
	defer talk.Close()

	if _, err := talk.Send(xmpp.Chat{Remote: x.Config.To, Type: "chat", Text: message}); err != nil {
		return fmt.Errorf("sending xmpp message: %w", err)
	}
	return nil
}

// AlertHalted sends a halt alert if any ship was halted. Failures are only
// logged.
func (x Xmpp) AlertHalted(hour int, wind float64, halted []fleet.Ship) {
	if len(halted) == 0 || !x.Enabled() {
		return
	}
	msg := HaltMessage(hour, wind, halted)
	if err := x.Send(msg); err != nil {
		log.WithError(err).Error("Error sending halt alert")
		return
	}
	log.Infof("Sent halt alert to %s", x.Config.To)
}
