package email

import (
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendProductAccess(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg string

	s := &Sender{
		host: "smtp.example.com",
		port: "587",
		user: "mailer@example.com",
		pass: "secret",
		from: "shop@example.com",
		send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, string(msg)
			return nil
		},
	}

	err := s.SendProductAccess("customer@example.com", "Rahim", "ORD01ABC", []AccessItem{
		{Name: "Netflix Premium", Duration: "1 Month", Link: "https://access.example.com/x"},
		{Name: "Canva Pro"},
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "shop@example.com", gotFrom)
	assert.Equal(t, []string{"customer@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Your order ORD01ABC is ready")
	assert.Contains(t, gotMsg, "Hi Rahim,")
	assert.Contains(t, gotMsg, "Netflix Premium (1 Month)")
	assert.Contains(t, gotMsg, "https://access.example.com/x")
	assert.Contains(t, gotMsg, "Canva Pro")
}

func TestSendProductAccessNotConfigured(t *testing.T) {
	s := &Sender{}
	err := s.SendProductAccess("x@y.com", "A", "ORD1", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
