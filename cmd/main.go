// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

// Command mailit composes a message from its flags and prints or delivers it.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mailit-go/mailit"
	"github.com/mailit-go/mailit/mailer"
)

// mailFlags holds the message settings shared by the compose and send commands
type mailFlags struct {
	from        string
	to          []string
	cc          []string
	bcc         []string
	replyTo     string
	subject     string
	text        string
	html        string
	attachments []string
	charset     string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cobra.CheckErr(newRootCmd().ExecuteContext(ctx))
}

// newRootCmd returns the mailit command with its compose and send sub-commands.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mailit",
		Short:         "Compose and send MIME messages",
		Version:       mailit.VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newComposeCmd(), newSendCmd())
	return rootCmd
}

func newComposeCmd() *cobra.Command {
	flags := &mailFlags{}
	var layout string
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Print the composed message to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := mailer.ParseLayout(layout)
			if err != nil {
				return err
			}
			m, err := flags.mail()
			if err != nil {
				return err
			}
			_, err = mailit.NewComposer(mailit.WithLayout(l)).WriteMail(cmd.OutOrStdout(), m)
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&layout, "layout", "compat", `multipart layout: "compat" or "rfc2046"`)
	return cmd
}

func newSendCmd() *cobra.Command {
	flags := &mailFlags{}
	var configFile string
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Deliver the composed message with the configured transport",
		Long: "Deliver the composed message with the configured transport.\n\n" +
			"The transport is configured with MAILIT_* environment variables, an optional .env\n" +
			"file or a YAML file given with --config.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			m, err := flags.mail()
			if err != nil {
				return err
			}
			client, err := mailer.NewFromConfig(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err = client.Send(cmd.Context(), m); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "sent %s via %s\n", m.MessageID(), client.Transport().Name())
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	return cmd
}

// register adds the message flags to cmd.
func (f *mailFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.from, "from", "f", "", "sender address")
	fs.StringSliceVarP(&f.to, "to", "t", nil, "recipient address (repeatable)")
	fs.StringSliceVar(&f.cc, "cc", nil, "carbon copy address (repeatable)")
	fs.StringSliceVar(&f.bcc, "bcc", nil, "blind carbon copy address (repeatable)")
	fs.StringVar(&f.replyTo, "reply-to", "", "reply-to address")
	fs.StringVarP(&f.subject, "subject", "s", "", "subject")
	fs.StringVar(&f.text, "text", "", `plain text body, "-" reads it from stdin`)
	fs.StringVar(&f.html, "html", "", "HTML fragment, wrapped into a complete HTML document")
	fs.StringSliceVarP(&f.attachments, "attach", "a", nil, "file to attach (repeatable)")
	fs.StringVar(&f.charset, "charset", string(mailit.CharsetUTF8), "charset of the headers and text body")
}

// mail builds the Mail described by the flags.
func (f *mailFlags) mail() (*mailit.Mail, error) {
	m := mailit.NewMail(mailit.WithCharset(mailit.Charset(f.charset)))
	if f.from != "" {
		m.SetFrom(f.from)
	}
	if len(f.to) > 0 {
		m.SetTo(f.to...)
	}
	if len(f.cc) > 0 {
		m.Headers().SetAddresses(mailit.HeaderCc, f.cc...)
	}
	if len(f.bcc) > 0 {
		m.SetBcc(f.bcc...)
	}
	if f.replyTo != "" {
		m.SetReplyTo(f.replyTo)
	}
	if f.subject != "" {
		m.SetSubject(f.subject)
	}

	text := f.text
	if text == "-" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read text body from stdin: %w", err)
		}
		text = string(content)
	}
	if text != "" {
		m.SetText(text)
	}
	if f.html != "" {
		m.SetHTML(f.html)
	}
	for _, path := range f.attachments {
		if err := m.Attach(path); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// loadConfig reads the YAML file at path or, if path is empty, the environment.
func loadConfig(path string) (mailer.Config, error) {
	if path != "" {
		return mailer.LoadConfigFile(path)
	}
	return mailer.LoadConfig(mailer.DefaultConfigPrefix)
}
