package notifier

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/vxronica/mechanic-shop/configs"
)

func SendEmail(recipientEmail string, customerName string, ticketID uint, serviceDesc string) error {
	cfg := config.LoadEmailConfig()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")),
	)
	if err != nil {

		log.Printf("Failed to load AWS SDK config for email to %s (ticket %d): %v", recipientEmail, ticketID, err)
		return fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := ses.NewFromConfig(awsCfg)

	if cfg.SenderEmail == "" {
		return fmt.Errorf("sender email address is not configured in environment variables")
	}
	if recipientEmail == "" {
		return fmt.Errorf("recipient email address is empty")
	}

	subject := fmt.Sprintf("Service Ticket #%d Confirmation - Your Vehicle Is in Good Hands!", ticketID)

	bodyHTML := fmt.Sprintf(`
        <html>
        <body>
            <p>Dear %s,</p>
            <p>Your service ticket #%d has been opened.</p>
            <p><strong>Ticket Details:</strong></p>
            <ul>
                <li>Ticket ID: %d</li>
                <li>Service: %s</li>
            </ul>
            <p>We'll send you another email when your vehicle is ready for pickup.</p>
            <p>Best regards,</p>
            <p>Your Mechanic Shop Team</p>
        </body>
        </html>`, customerName, ticketID, ticketID, serviceDesc)

	bodyText := fmt.Sprintf(
		"Dear %s,\n\nYour service ticket #%d has been opened.\n\n"+
			"Ticket Details:\nTicket ID: %d\nService: %s\n\n"+
			"We'll send you another email when your vehicle is ready for pickup.\n\nBest regards,\nYour Mechanic Shop Team",
		customerName, ticketID, ticketID, serviceDesc)

	input := &ses.SendEmailInput{
		Source: aws.String(cfg.SenderEmail),
		Destination: &types.Destination{
			ToAddresses: []string{recipientEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyHTML),
				},
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyText),
				},
			},
		},
	}

	_, err = client.SendEmail(context.TODO(), input)
	if err != nil {
		log.Printf("Failed to send email for ticket %d to %s: %v", ticketID, recipientEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("Ticket confirmation email sent successfully for ticket %d to %s", ticketID, recipientEmail)
	return nil
}
