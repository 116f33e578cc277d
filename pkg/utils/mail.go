package utils

import (
	"fmt"
	"os"

	"github.com/mailjet/mailjet-apiv3-go/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"

	"spv_captable_back/models"
)

// NotifyTransferEvent sends a lifecycle notification mail. Fire-and-forget:
// callers run it in a goroutine and no transition ever waits on or fails
// because of it.
func NotifyTransferEvent(transfer models.Transfer, action models.HistoryAction, recipientEmail, recipientName string) {
	if !viper.GetBool("notify.enabled") {
		return
	}

	subject := fmt.Sprintf("Transfer %s: %s", transfer.PublicID, action)
	body := fmt.Sprintf(`<body style="margin:0;padding:0;background:#f6f6f6;">
  <table width="100%%" cellpadding="0" cellspacing="0" border="0" style="max-width:600px;background:#f3f2f0;border-radius:12px;">
    <tr>
      <td style="padding:32px;text-align:left;">
        <h1 style="margin:0 0 12px 0;font-family:Arial,sans-serif;font-size:24px;color:#111;">Ownership transfer update</h1>
        <p style="margin:0 0 24px 0;font-family:Arial,sans-serif;font-size:16px;color:#222;">Hello %s, transfer %s changed state.</p>
        <table cellpadding="0" cellspacing="0" border="0" style="width:100%%;">
          <tr>
            <td style="font-family:Arial,sans-serif;font-size:14px;color:#555;padding:4px 0;">Action:</td>
            <td style="font-family:Arial,sans-serif;font-size:14px;color:#111;font-weight:bold;padding:4px 0;">%s</td>
          </tr>
          <tr>
            <td style="font-family:Arial,sans-serif;font-size:14px;color:#555;padding:4px 0;">Stake:</td>
            <td style="font-family:Arial,sans-serif;font-size:14px;color:#111;font-weight:bold;padding:4px 0;">%s%%</td>
          </tr>
          <tr>
            <td style="font-family:Arial,sans-serif;font-size:14px;color:#555;padding:4px 0;">Amount:</td>
            <td style="font-family:Arial,sans-serif;font-size:14px;color:#111;font-weight:bold;padding:4px 0;">%s</td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>`, recipientName, transfer.PublicID, action, transfer.Percentage.String(), transfer.Amount.String())

	if viper.GetString("notify.provider") == "mailjet" {
		sendMailjet(recipientEmail, recipientName, subject, body)
		return
	}
	sendSMTP(recipientEmail, subject, body)
}

func sendMailjet(toEmail, toName, subject, body string) {
	apiKey := os.Getenv("MAILJET_API_KEY")
	secretKey := os.Getenv("MAILJET_SECRET_KEY")
	if apiKey == "" || secretKey == "" {
		logrus.Warn("MAILJET_API_KEY or MAILJET_SECRET_KEY not set, skipping notification")
		return
	}

	mj := mailjet.NewMailjetClient(apiKey, secretKey)
	messages := &mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{
		{
			From: &mailjet.RecipientV31{
				Email: viper.GetString("notify.from"),
				Name:  viper.GetString("notify.from_name"),
			},
			To: &mailjet.RecipientsV31{
				{Email: toEmail, Name: toName},
			},
			Subject:  subject,
			HTMLPart: body,
		},
	}}
	if _, err := mj.SendMailV31(messages); err != nil {
		logrus.Errorf("mailjet notification failed: %s", err)
		return
	}
	logrus.Infof("notification sent to %s: %s", toEmail, subject)
}

func sendSMTP(toEmail, subject, body string) {
	from := viper.GetString("notify.from")
	password := os.Getenv("SMTP_APP_PASSWORD")

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(viper.GetString("notify.smtp_host"), viper.GetInt("notify.smtp_port"), from, password)
	if err := d.DialAndSend(m); err != nil {
		logrus.Errorf("smtp notification failed: %s", err)
		return
	}
	logrus.Infof("notification sent to %s: %s", toEmail, subject)
}
