// Package grantproto implements the line-oriented protocol the grant
// orchestrator speaks with the grant-1 helper (§4.5): message framing,
// prefix dispatch and reply formatting. All messages are UTF-8 lines
// terminated by a single '\n'; unknown lines from the helper are
// ignored to preserve forward compatibility.
package grantproto

import "strings"

// Kind discriminates the message kinds a helper line can carry.
type Kind int

const (
	// KindUnknown is any line not matching a recognized prefix; it
	// MUST be ignored by the orchestrator.
	KindUnknown Kind = iota
	// KindPromptEchoOff requests a secret, not echoed back to the user.
	KindPromptEchoOff
	// KindPromptEchoOn requests a visible response.
	KindPromptEchoOn
	// KindErrorMessage is a diagnostic with no reply expected.
	KindErrorMessage
	// KindTextInfo is informational text with no reply expected.
	KindTextInfo
	// KindTellType announces the implicit-authorization kind in play.
	KindTellType
	// KindTellAdminUsers lists admin users and expects a selection reply.
	KindTellAdminUsers
	// KindAskOverrideGrantType asks whether to downgrade the implicit
	// authorization kind, expecting a reply.
	KindAskOverrideGrantType
)

const (
	prefixPromptEchoOff      = "PAM_PROMPT_ECHO_OFF "
	prefixPromptEchoOn       = "PAM_PROMPT_ECHO_ON "
	prefixErrorMsg           = "PAM_ERROR_MSG "
	prefixTextInfo           = "PAM_TEXT_INFO "
	prefixTellType           = "POLKIT_GRANT_HELPER_TELL_TYPE "
	prefixTellAdminUsers     = "POLKIT_GRANT_HELPER_TELL_ADMIN_USERS "
	prefixAskOverrideGrant   = "POLKIT_GRANT_HELPER_ASK_OVERRIDE_GRANT_TYPE "
	prefixSelectAdminUser    = "POLKIT_GRANT_CALLER_SELECT_ADMIN_USER "
	prefixPassOverrideGrant  = "POLKIT_GRANT_CALLER_PASS_OVERRIDE_GRANT_TYPE "
)

// Message is one parsed helper-to-client line.
type Message struct {
	Kind    Kind
	Payload string
}

// Parse dispatches a single helper line (without its trailing '\n') by
// prefix. A line matching no recognized prefix parses as KindUnknown
// with the whole line as Payload.
func Parse(line string) Message {
	switch {
	case strings.HasPrefix(line, prefixPromptEchoOff):
		return Message{Kind: KindPromptEchoOff, Payload: strings.TrimPrefix(line, prefixPromptEchoOff)}
	case strings.HasPrefix(line, prefixPromptEchoOn):
		return Message{Kind: KindPromptEchoOn, Payload: strings.TrimPrefix(line, prefixPromptEchoOn)}
	case strings.HasPrefix(line, prefixErrorMsg):
		return Message{Kind: KindErrorMessage, Payload: strings.TrimPrefix(line, prefixErrorMsg)}
	case strings.HasPrefix(line, prefixTextInfo):
		return Message{Kind: KindTextInfo, Payload: strings.TrimPrefix(line, prefixTextInfo)}
	case strings.HasPrefix(line, prefixTellType):
		return Message{Kind: KindTellType, Payload: strings.TrimPrefix(line, prefixTellType)}
	case strings.HasPrefix(line, prefixTellAdminUsers):
		return Message{Kind: KindTellAdminUsers, Payload: strings.TrimPrefix(line, prefixTellAdminUsers)}
	case strings.HasPrefix(line, prefixAskOverrideGrant):
		return Message{Kind: KindAskOverrideGrantType, Payload: strings.TrimPrefix(line, prefixAskOverrideGrant)}
	default:
		return Message{Kind: KindUnknown, Payload: line}
	}
}

// FormatReply frames a raw prompt reply (secret or visible response):
// sent verbatim, no prefix, with exactly one trailing '\n'.
func FormatReply(text string) string {
	return ensureNewline(text)
}

// FormatSelectAdminUser frames a reply to KindTellAdminUsers.
func FormatSelectAdminUser(user string) string {
	return ensureNewline(prefixSelectAdminUser + user)
}

// FormatPassOverrideGrantType frames a reply to KindAskOverrideGrantType.
func FormatPassOverrideGrantType(kind string) string {
	return ensureNewline(prefixPassOverrideGrant + kind)
}

// AdminUsers splits a KindTellAdminUsers payload into its
// space-separated user list.
func AdminUsers(payload string) []string {
	return strings.Fields(payload)
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
