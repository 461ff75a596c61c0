package mail

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// Email bodies. Each message ships an HTML part and a plain-text
// alternative; the URL is the only dynamic value.

const resetTextTemplate = `Reset Your Password

You requested to reset your password. Use the link below to create a new password.

This link will expire in 15 minutes.

{{.URL}}

If you didn't request a password reset, you can safely ignore this email.
`

const resetHTMLTemplate = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
  </head>
  <body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background-color: #f9fafb; border-radius: 8px; padding: 40px; margin: 20px 0;">
      <h1 style="color: #18181b; margin-top: 0; font-size: 24px;">Reset Your Password</h1>
      <p style="color: #52525b; font-size: 16px;">
        You requested to reset your password. Click the button below to create a new password.
      </p>
      <p style="color: #52525b; font-size: 16px;">
        This link will expire in <strong>15 minutes</strong>.
      </p>
      <div style="margin: 30px 0;">
        <a href="{{.URL}}" style="background-color: #18181b; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block; font-weight: 600;">
          Reset Password
        </a>
      </div>
      <p style="color: #71717a; font-size: 14px;">
        If you didn't request a password reset, you can safely ignore this email.
      </p>
      <hr style="border: none; border-top: 1px solid #e4e4e7; margin: 30px 0;">
      <p style="color: #a1a1aa; font-size: 12px;">
        Or copy and paste this link into your browser:<br>
        <a href="{{.URL}}" style="color: #18181b; word-break: break-all;">{{.URL}}</a>
      </p>
    </div>
  </body>
</html>
`

const magicLinkTextTemplate = `Sign In

Click the link below to sign in. No password needed.

This link will expire in 24 hours and can only be used once.

{{.URL}}

If you didn't request this link, you can safely ignore this email.
`

const magicLinkHTMLTemplate = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
  </head>
  <body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background-color: #f9fafb; border-radius: 8px; padding: 40px; margin: 20px 0;">
      <h1 style="color: #18181b; margin-top: 0; font-size: 24px;">Sign In</h1>
      <p style="color: #52525b; font-size: 16px;">
        Click the button below to sign in. No password needed.
      </p>
      <p style="color: #52525b; font-size: 16px;">
        This link will expire in <strong>24 hours</strong> and can only be used once.
      </p>
      <div style="margin: 30px 0;">
        <a href="{{.URL}}" style="background-color: #18181b; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block; font-weight: 600;">
          Sign In
        </a>
      </div>
      <p style="color: #71717a; font-size: 14px;">
        If you didn't request this link, you can safely ignore this email.
      </p>
      <hr style="border: none; border-top: 1px solid #e4e4e7; margin: 30px 0;">
      <p style="color: #a1a1aa; font-size: 12px;">
        Or copy and paste this link into your browser:<br>
        <a href="{{.URL}}" style="color: #18181b; word-break: break-all;">{{.URL}}</a>
      </p>
    </div>
  </body>
</html>
`

var (
	resetText     = texttemplate.Must(texttemplate.New("reset-text").Parse(resetTextTemplate))
	resetHTML     = htmltemplate.Must(htmltemplate.New("reset-html").Parse(resetHTMLTemplate))
	magicLinkText = texttemplate.Must(texttemplate.New("magic-text").Parse(magicLinkTextTemplate))
	magicLinkHTML = htmltemplate.Must(htmltemplate.New("magic-html").Parse(magicLinkHTMLTemplate))
)

type templateData struct {
	URL string
}

func renderReset(url string) (text, html string, err error) {
	return render(url, resetText, resetHTML)
}

func renderMagicLink(url string) (text, html string, err error) {
	return render(url, magicLinkText, magicLinkHTML)
}

func render(url string, text *texttemplate.Template, html *htmltemplate.Template) (string, string, error) {
	data := templateData{URL: url}

	var textBuf bytes.Buffer
	if err := text.Execute(&textBuf, data); err != nil {
		return "", "", err
	}

	var htmlBuf bytes.Buffer
	if err := html.Execute(&htmlBuf, data); err != nil {
		return "", "", err
	}

	return textBuf.String(), htmlBuf.String(), nil
}
