package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"path/filepath"
	"time"

	"spacely/internal/db"
	"spacely/internal/entities"
)

type SenderService struct {
}

func NewSenderService() *SenderService {
	return &SenderService{}
}

// SendBookingEmail renders and sends the booking lifecycle email in the
// guest's language. Delivery is asynchronous; failures are logged and never
// fail the booking flow.
func (s *SenderService) SendBookingEmail(booking entities.BookingResponse, userName, userEmail, status string) {
	emailData := entities.BookingEmailData{
		UserName:       userName,
		BookingCode:    booking.Code,
		ListingTitle:   booking.ListingTitle,
		FirstDate:      booking.Date,
		Occurrences:    1,
		TotalFormatted: fmt.Sprintf("%.2f", float64(booking.TotalCents)/100),
		CurrentYear:    time.Now().UTC().Year(),
		Language:       booking.Language,
		Status:         status,
	}

	var emailSubject, plainTextBody string
	switch booking.Language {
	case "es":
		emailSubject = fmt.Sprintf("Tu reserva en Spacely está %s - Código: %s", status, emailData.BookingCode)
		plainTextBody = fmt.Sprintf(
			"Hola %s,\n\nTu reserva en Spacely está %s.\n\n"+
				"Detalles de la reserva:\n"+
				"Código de Reserva: %s\n"+
				"Espacio: %s\n"+
				"Primera fecha: %s\n"+
				"Total: %s\n\n"+
				"Gracias por elegir Spacely.",
			emailData.UserName, status, emailData.BookingCode, emailData.ListingTitle,
			emailData.FirstDate, emailData.TotalFormatted,
		)
	case "it":
		emailSubject = fmt.Sprintf("La tua prenotazione Spacely è %s - Codice: %s", status, emailData.BookingCode)
		plainTextBody = fmt.Sprintf(
			"Ciao %s,\n\nLa tua prenotazione su Spacely è %s.\n\n"+
				"Dettagli della prenotazione:\n"+
				"Codice prenotazione: %s\n"+
				"Spazio: %s\n"+
				"Prima data: %s\n"+
				"Totale: %s\n\n"+
				"Grazie per aver scelto Spacely.",
			emailData.UserName, status, emailData.BookingCode, emailData.ListingTitle,
			emailData.FirstDate, emailData.TotalFormatted,
		)
	default:
		emailSubject = fmt.Sprintf("Your Spacely booking is %s - Code: %s", status, emailData.BookingCode)
		plainTextBody = fmt.Sprintf(
			"Hello %s,\n\nYour booking on Spacely is %s.\n\n"+
				"Booking details:\n"+
				"Booking Code: %s\n"+
				"Space: %s\n"+
				"First date: %s\n"+
				"Total: %s\n\n"+
				"Thank you for choosing Spacely.",
			emailData.UserName, status, emailData.BookingCode, emailData.ListingTitle,
			emailData.FirstDate, emailData.TotalFormatted,
		)
	}

	htmlBody := ""
	tmplPath := filepath.Join("internal", "templates", "booking_email.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		log.Printf("ALERT: Failed to parse booking email template (%s): %v", tmplPath, err)
	} else {
		var htmlBodyBuffer bytes.Buffer
		if err := tmpl.Execute(&htmlBodyBuffer, emailData); err != nil {
			log.Printf("ALERT: Failed to render booking email template for %s: %v", emailData.BookingCode, err)
		}
		htmlBody = htmlBodyBuffer.String()
	}

	go func(toEmail, userName, subject, plainBody, htmlBodyContent string) {
		errEmail := SendEmailWithSendGrid(toEmail, userName, subject, plainBody, htmlBodyContent)
		if errEmail != nil {
			log.Printf("ALERT (async): Failed to send booking email for %s: %v", emailData.BookingCode, errEmail)
		}
	}(userEmail, emailData.UserName, emailSubject, plainTextBody, htmlBody)
}

func (s *SenderService) SendBookingSMS(booking entities.BookingResponse, userPhone, status string) {
	var smsMessage string
	switch booking.Language {
	case "es":
		smsMessage = fmt.Sprintf("Spacely: ¡Tu reserva %s está %s!\nPrimera fecha: %s.\nMás detalles en tu correo.",
			booking.Code, status, booking.Date)
	case "it":
		smsMessage = fmt.Sprintf("Spacely: La tua prenotazione %s è %s!\nPrima data: %s.\nAltri dettagli nella tua email.",
			booking.Code, status, booking.Date)
	default:
		smsMessage = fmt.Sprintf("Spacely: Booking %s is %s!\nFirst date: %s.\nMore details in your email.",
			booking.Code, status, booking.Date)
	}

	if err := SendSMS(userPhone, smsMessage); err != nil {
		log.Printf("ALERT: Booking %s notification SMS to %s failed: %v", booking.Code, userPhone, err)
	}
}

// SendVerificationEmail delivers an OTP code; implements otp.Sender.
func (s *SenderService) SendVerificationEmail(toEmail, toName, code string) error {
	subject := "Your Spacely verification code"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour Spacely verification code is: %s\n\n"+
			"It expires in 10 minutes. If you did not request it, ignore this email.",
		toName, code,
	)
	return SendEmailWithSendGrid(toEmail, toName, subject, body, "")
}

// SendVerificationSMS delivers an OTP code; implements otp.Sender.
func (s *SenderService) SendVerificationSMS(toPhone, code string) error {
	return SendSMS(toPhone, fmt.Sprintf("Spacely verification code: %s", code))
}

// StatusTranslation localizes a booking status for notifications.
func (s *SenderService) StatusTranslation(status, lang string) string {
	switch lang {
	case "es":
		switch status {
		case db.BookingPending:
			return "pendiente"
		case db.BookingConfirmed:
			return "confirmada"
		case db.BookingCompleted:
			return "finalizada"
		case db.BookingCancelled:
			return "cancelada"
		}
	case "it":
		switch status {
		case db.BookingPending:
			return "in attesa"
		case db.BookingConfirmed:
			return "confermata"
		case db.BookingCompleted:
			return "completata"
		case db.BookingCancelled:
			return "annullata"
		}
	}
	// Default: English.
	return status
}
