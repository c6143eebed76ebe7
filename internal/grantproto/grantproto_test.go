package grantproto_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ubuntu/authorityd/internal/grantproto"
)

func TestParsePrefixes(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		line    string
		wantK   grantproto.Kind
		wantPay string
	}{
		"prompt echo off":    {"PAM_PROMPT_ECHO_OFF Password: ", grantproto.KindPromptEchoOff, "Password: "},
		"prompt echo on":     {"PAM_PROMPT_ECHO_ON Username: ", grantproto.KindPromptEchoOn, "Username: "},
		"error message":      {"PAM_ERROR_MSG bad password", grantproto.KindErrorMessage, "bad password"},
		"text info":          {"PAM_TEXT_INFO ok", grantproto.KindTextInfo, "ok"},
		"tell type":          {"POLKIT_GRANT_HELPER_TELL_TYPE auth_self_keep", grantproto.KindTellType, "auth_self_keep"},
		"tell admin users":   {"POLKIT_GRANT_HELPER_TELL_ADMIN_USERS root admin", grantproto.KindTellAdminUsers, "root admin"},
		"ask override":       {"POLKIT_GRANT_HELPER_ASK_OVERRIDE_GRANT_TYPE auth_admin", grantproto.KindAskOverrideGrantType, "auth_admin"},
		"unknown is ignored": {"SOME_FUTURE_MESSAGE foo", grantproto.KindUnknown, "SOME_FUTURE_MESSAGE foo"},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			msg := grantproto.Parse(tc.line)
			require.Equal(t, tc.wantK, msg.Kind)
			require.Equal(t, tc.wantPay, msg.Payload)
		})
	}
}

func TestFormatReplyAppendsNewline(t *testing.T) {
	t.Parallel()

	require.Equal(t, "secret\n", grantproto.FormatReply("secret"))
	require.Equal(t, "secret\n", grantproto.FormatReply("secret\n"))
}

func TestAdminUsers(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"root", "admin"}, grantproto.AdminUsers("root admin"))
}
