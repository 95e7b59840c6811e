// Package parser reads RFC 5322 message files into the email model so they
// can be sent as transmissions.
package parser

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"

	"github.com/shineum/sparkpost-lite/internal/email"
)

var wordDecoder = new(mime.WordDecoder)

// Parse parses a raw message. Display names are kept on addresses, encoded
// words in the subject and filenames are decoded, and X- headers are
// carried over. Unrecognized MIME parts are logged and skipped.
func Parse(raw []byte) (*email.Email, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	result := &email.Email{
		From:    firstAddress(msg.Header, "From"),
		To:      addressList(msg.Header, "To"),
		Cc:      addressList(msg.Header, "Cc"),
		Bcc:     addressList(msg.Header, "Bcc"),
		ReplyTo: firstAddress(msg.Header, "Reply-To"),
		Subject: decodeHeader(msg.Header.Get("Subject")),
		Headers: extensionHeaders(msg.Header),
	}

	if err := readPart(result, textproto.MIMEHeader(msg.Header), msg.Body, true); err != nil {
		return nil, err
	}
	return result, nil
}

// readPart folds one MIME entity into result. Errors are returned only for
// the top-level entity; nested problems are logged and the part skipped.
func readPart(result *email.Email, header textproto.MIMEHeader, body io.Reader, top bool) error {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		if !top {
			slog.Warn("failed to parse part content type, skipping",
				"content_type", contentType,
				"error", err,
			)
			return nil
		}
		slog.Warn("failed to parse content type, treating as plain text",
			"content_type", contentType,
			"error", err,
		)
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return readMultipart(result, body, params["boundary"], top)
	}

	content, err := decodeBody(header.Get("Content-Transfer-Encoding"), body)
	if err != nil {
		if top {
			return fmt.Errorf("failed to read message body: %w", err)
		}
		slog.Warn("failed to read part content",
			"content_type", mediaType,
			"error", err,
		)
		return nil
	}

	disposition, dispParams, _ := mime.ParseMediaType(header.Get("Content-Disposition"))
	filename := decodeHeader(dispParams["filename"])
	if filename == "" {
		filename = decodeHeader(params["name"])
	}

	if disposition == "attachment" {
		addAttachment(result, mediaType, filename, content)
		return nil
	}

	switch {
	case mediaType == "text/plain":
		if result.TextBody == "" {
			result.TextBody = string(content)
		}
	case mediaType == "text/html":
		if result.HtmlBody == "" {
			result.HtmlBody = string(content)
		}
	case filename != "":
		addAttachment(result, mediaType, filename, content)
	case top:
		slog.Warn("unrecognized top-level content type",
			"content_type", mediaType,
		)
		result.TextBody = string(content)
	default:
		slog.Warn("unrecognized MIME part, skipping",
			"content_type", mediaType,
			"disposition", disposition,
		)
	}
	return nil
}

func readMultipart(result *email.Email, body io.Reader, boundary string, top bool) error {
	if boundary == "" {
		if top {
			return errors.New("multipart message missing boundary")
		}
		slog.Warn("nested multipart missing boundary, skipping")
		return nil
	}

	reader := multipart.NewReader(body, boundary)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if top {
				return fmt.Errorf("failed to parse multipart message: %w", err)
			}
			slog.Warn("failed to parse nested multipart", "error", err)
			return nil
		}

		if err := readPart(result, part.Header, part, false); err != nil {
			return err
		}
	}
}

// decodeBody applies the Content-Transfer-Encoding. Parts read through
// multipart.Reader arrive with quoted-printable already decoded.
func decodeBody(encoding string, r io.Reader) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		decoded, err := base64.StdEncoding.DecodeString(string(raw))
		if err != nil {
			// unpadded
			decoded, err = base64.RawStdEncoding.DecodeString(string(raw))
			if err != nil {
				return nil, fmt.Errorf("failed to decode base64 content: %w", err)
			}
		}
		return decoded, nil
	case "quoted-printable":
		return io.ReadAll(quotedprintable.NewReader(r))
	default:
		return io.ReadAll(r)
	}
}

func addAttachment(result *email.Email, mediaType, filename string, content []byte) {
	if filename == "" {
		filename = "attachment"
		if _, sub, ok := strings.Cut(mediaType, "/"); ok {
			filename += "." + sub
		}
	}
	result.Attachments = append(result.Attachments, email.Attachment{
		Filename:    filename,
		ContentType: mediaType,
		Content:     content,
	})
}

// addressList returns the addresses of a header as "Name <addr>" or bare
// addresses. Lists that fail RFC 5322 parsing are split on commas.
func addressList(h mail.Header, key string) []string {
	raw := h.Get(key)
	if raw == "" {
		return nil
	}

	addrs, err := h.AddressList(key)
	if err != nil {
		var result []string
		for _, p := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}

	result := make([]string, 0, len(addrs))
	for _, a := range addrs {
		result = append(result, formatAddress(a))
	}
	return result
}

func firstAddress(h mail.Header, key string) string {
	if list := addressList(h, key); len(list) > 0 {
		return list[0]
	}
	return ""
}

func formatAddress(a *mail.Address) string {
	if a.Name == "" {
		return a.Address
	}
	return `"` + a.Name + `" <` + a.Address + ">"
}

// extensionHeaders returns the X- headers of the message, or nil.
func extensionHeaders(h mail.Header) map[string]string {
	var headers map[string]string
	for key, values := range h {
		if !strings.HasPrefix(key, "X-") || len(values) == 0 {
			continue
		}
		if headers == nil {
			headers = make(map[string]string)
		}
		headers[key] = decodeHeader(values[0])
	}
	return headers
}

func decodeHeader(s string) string {
	decoded, err := wordDecoder.DecodeHeader(s)
	if err != nil {
		return s
	}
	return decoded
}
