package sparkpost

import "strings"

// FormatPayload returns a copy of t ready to send. The caller's value is
// never modified.
//
// When Recipients is an inline list, every recipient address is converted
// to object form. CC and BCC entries are appended to the recipient list
// after the original recipients, each carrying a header_to of the original
// recipients' addresses and no display name. A non-empty CC list also sets
// the CC header on the content. The CC and BCC fields are cleared.
//
// Stored recipient lists and missing recipients are returned unformatted.
func FormatPayload(t *Transmission) *Transmission {
	out := t.Clone()
	if out == nil || !out.Recipients.IsList() {
		return out
	}

	rcpts := out.Recipients.List
	for i := range rcpts {
		rcpts[i].Address = AddressOf(rcpts[i].Address.Object())
	}

	if len(out.CC) > 0 {
		if out.Content.Headers == nil {
			out.Content.Headers = make(map[string]string, 1)
		}
		out.Content.Headers["CC"] = joinAddresses(out.CC)
	}

	// Computed once: appending cc must not change the header for bcc.
	headerTo := generateHeaderTo(rcpts)

	rcpts = appendCopied(rcpts, out.CC, headerTo)
	rcpts = appendCopied(rcpts, out.BCC, headerTo)

	if rcpts == nil {
		rcpts = []Recipient{}
	}
	out.Recipients.List = rcpts
	out.CC = nil
	out.BCC = nil

	return out
}

// appendCopied appends carbon- or blind-copied recipients. The display name
// is dropped; for cc it survives only in the CC header.
func appendCopied(rcpts, copied []Recipient, headerTo string) []Recipient {
	for _, r := range copied {
		addr := r.Address.Object()
		addr.Name = ""
		ht := headerTo
		addr.HeaderTo = &ht

		r.Address = AddressOf(addr)
		rcpts = append(rcpts, r)
	}
	return rcpts
}

// generateHeaderTo joins the addresses of recipients that are not already
// copies of another recipient.
func generateHeaderTo(rcpts []Recipient) string {
	parts := make([]string, 0, len(rcpts))
	for _, r := range rcpts {
		addr := r.Address.Object()
		if addr.HeaderTo != nil {
			continue
		}
		parts = append(parts, addr.String())
	}
	return strings.Join(parts, ", ")
}

func joinAddresses(rcpts []Recipient) string {
	parts := make([]string, len(rcpts))
	for i, r := range rcpts {
		parts[i] = r.Address.Object().String()
	}
	return strings.Join(parts, ", ")
}
