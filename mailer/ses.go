// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/mailit-go/mailit/log"
)

// SendEmailAPI is the SES v2 SendEmail operation used by the SESTransport.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESConfig holds the settings of the SESTransport. Static credentials are used if both
// AccessKeyID and SecretAccessKey are set, the default AWS credential chain otherwise.
type SESConfig struct {
	Region           string `envconfig:"REGION" yaml:"region"`
	AccessKeyID      string `envconfig:"ACCESS_KEY_ID" yaml:"access_key_id"`
	SecretAccessKey  string `envconfig:"SECRET_ACCESS_KEY" yaml:"secret_access_key"`
	ConfigurationSet string `envconfig:"CONFIGURATION_SET" yaml:"configuration_set"`
}

// SESTransport delivers the composed message unchanged as raw content via AWS SES v2.
type SESTransport struct {
	client           SendEmailAPI
	configurationSet string
	logger           log.Logger
}

// NewSESTransport loads the AWS configuration for cfg and returns an SESTransport using
// an sesv2.Client.
func NewSESTransport(ctx context.Context, cfg SESConfig, logger log.Logger) (*SESTransport, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	transport := NewSESTransportWithClient(sesv2.NewFromConfig(awsCfg), logger)
	transport.configurationSet = cfg.ConfigurationSet
	return transport, nil
}

// NewSESTransportWithClient returns an SESTransport using client.
func NewSESTransportWithClient(client SendEmailAPI, logger log.Logger) *SESTransport {
	if logger == nil {
		logger = log.Nop{}
	}
	return &SESTransport{client: client, logger: logger}
}

// Name returns "ses".
func (s *SESTransport) Name() string {
	return "ses"
}

// Send submits message as raw content. The envelope sender and recipients are passed
// explicitly, so "Bcc" recipients are delivered as well.
func (s *SESTransport) Send(ctx context.Context, envelope Envelope, message []byte) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(envelope.From),
		Destination: &types.Destination{
			ToAddresses: envelope.To,
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{
				Data: message,
			},
		},
	}
	if s.configurationSet != "" {
		input.ConfigurationSetName = aws.String(s.configurationSet)
	}

	output, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return newSendError(ErrTransport, fmt.Errorf("SES API request failed: %w", err), envelope.To...)
	}
	if output != nil && output.MessageId != nil {
		s.logger.Debugf(log.Log{Direction: log.DirNone, Format: "SES accepted message with ID %s",
			Messages: []interface{}{aws.ToString(output.MessageId)}})
	}
	return nil
}
