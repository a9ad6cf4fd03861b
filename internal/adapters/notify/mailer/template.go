package mailer

import "fmt"

// alertTemplate envuelve el mensaje en un HTML simple y legible en
// cualquier cliente de correo.
func alertTemplate(subject, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
</head>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 20px;">
  <div style="max-width: 560px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; padding: 24px;">
    <h2 style="color: #c0392b; margin-top: 0;">%s</h2>
    <p style="color: #333333; font-size: 15px; line-height: 1.5;">%s</p>
    <hr style="border: none; border-top: 1px solid #eeeeee; margin: 20px 0;">
    <p style="color: #999999; font-size: 12px;">
      Este es un aviso automático del recordatorio de medicación.
      Por favor comuníquese con su familiar para confirmar que se encuentra bien.
    </p>
  </div>
</body>
</html>`, subject, message)
}
