package delivery

import (
	"html"
	"regexp"
	"strings"
)

// Mail-merge token table. Matching is case-insensitive; unknown bracketed
// text is left alone.
var mergeToken = regexp.MustCompile(`(?i)\[(recipient name|name|your name|sender name)\]`)

const (
	defaultRecipientName = "there"
	defaultSenderName    = "Your team"
)

// MergeTokens substitutes the fixed token table into text using the
// recipient and sender names, falling back to stock values when empty.
func MergeTokens(text, recipientName, senderName string) string {
	if strings.TrimSpace(recipientName) == "" {
		recipientName = defaultRecipientName
	}
	if strings.TrimSpace(senderName) == "" {
		senderName = defaultSenderName
	}

	return mergeToken.ReplaceAllStringFunc(text, func(tok string) string {
		inner := strings.ToLower(strings.Trim(tok, "[]"))
		switch inner {
		case "recipient name", "name":
			return recipientName
		case "your name", "sender name":
			return senderName
		}
		return tok
	})
}

// ToHTML makes a body safe to send as text/html. Bodies that already look
// like markup pass through; plain text is escaped and wrapped one <p> per
// blank-line-delimited paragraph.
func ToHTML(body string) string {
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "<") && strings.HasSuffix(trimmed, ">") {
		return body
	}

	var b strings.Builder
	for _, para := range strings.Split(trimmed, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(para), "\n", "<br>"))
		b.WriteString("</p>\n")
	}
	return b.String()
}
