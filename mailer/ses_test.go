// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailit-go/mailit/log"
)

// fakeSES records the SendEmail input and returns the configured result
type fakeSES struct {
	input     *sesv2.SendEmailInput
	messageID string
	err       error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput,
	_ ...func(*sesv2.Options),
) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String(f.messageID)}, nil
}

func TestSESTransport_Send(t *testing.T) {
	client := &fakeSES{messageID: "0100018c-ses-id"}
	var buf bytes.Buffer
	transport := NewSESTransportWithClient(client, log.New(&buf, log.LevelDebug))
	transport.configurationSet = "tracking"
	assert.Equal(t, "ses", transport.Name())

	envelope := testEnvelope(TestRcpt, "hidden@example.com")
	require.NoError(t, transport.Send(context.Background(), envelope, []byte(TestMessage)))

	require.NotNil(t, client.input)
	assert.Equal(t, TestSender, aws.ToString(client.input.FromEmailAddress))
	assert.Equal(t, []string{TestRcpt, "hidden@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, []byte(TestMessage), client.input.Content.Raw.Data)
	assert.Equal(t, "tracking", aws.ToString(client.input.ConfigurationSetName))
	assert.Contains(t, buf.String(), "SES accepted message with ID 0100018c-ses-id")
}

func TestSESTransport_SendWithoutConfigurationSet(t *testing.T) {
	client := &fakeSES{messageID: "id"}
	transport := NewSESTransportWithClient(client, nil)

	require.NoError(t, transport.Send(context.Background(), testEnvelope(), []byte(TestMessage)))
	assert.Nil(t, client.input.ConfigurationSetName)
}

func TestSESTransport_SendFailure(t *testing.T) {
	apiErr := errors.New("MessageRejected: Email address is not verified")
	transport := NewSESTransportWithClient(&fakeSES{err: apiErr}, nil)

	err := transport.Send(context.Background(), testEnvelope(), []byte(TestMessage))
	sendErr := assertSendError(t, err, ErrTransport)
	assert.ErrorIs(t, err, apiErr)
	assert.Equal(t, []string{TestRcpt}, sendErr.Recipients())
	assert.Contains(t, err.Error(), "SES API request failed")
}

func TestNewSESTransport(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", t.TempDir()+"/config")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", t.TempDir()+"/credentials")

	transport, err := NewSESTransport(context.Background(), SESConfig{
		Region:           "eu-central-1",
		AccessKeyID:      "AKIDEXAMPLE",
		SecretAccessKey:  "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
		ConfigurationSet: "tracking",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "tracking", transport.configurationSet)
	assert.IsType(t, &sesv2.Client{}, transport.client)
	assert.IsType(t, log.Nop{}, transport.logger)
}
