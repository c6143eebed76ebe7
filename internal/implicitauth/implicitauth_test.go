package implicitauth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ubuntu/authorityd/internal/implicitauth"
)

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	for _, r := range []implicitauth.Result{
		implicitauth.No, implicitauth.AuthSelf, implicitauth.AuthAdmin,
		implicitauth.AuthSelfKeep, implicitauth.AuthAdminKeep, implicitauth.Yes,
	} {
		assert.Equal(t, r, implicitauth.Parse(r.String()))
	}
}

func TestParseUnknownDefaultsToNo(t *testing.T) {
	t.Parallel()

	assert.Equal(t, implicitauth.No, implicitauth.Parse("something-future"))
}

func TestDefaultValue(t *testing.T) {
	t.Parallel()

	var i implicitauth.ImplicitAuthorization
	assert.True(t, i.Equal(implicitauth.ImplicitAuthorization{Any: implicitauth.No, Inactive: implicitauth.No, Active: implicitauth.No}))
}

func TestFor(t *testing.T) {
	t.Parallel()

	i := implicitauth.ImplicitAuthorization{Any: implicitauth.AuthAdmin, Inactive: implicitauth.AuthAdmin, Active: implicitauth.Yes}

	assert.Equal(t, implicitauth.AuthAdmin, i.For(false, false))
	assert.Equal(t, implicitauth.AuthAdmin, i.For(true, false))
	assert.Equal(t, implicitauth.Yes, i.For(true, true))
}

func TestRequiresAuthentication(t *testing.T) {
	t.Parallel()

	assert.False(t, implicitauth.No.RequiresAuthentication())
	assert.False(t, implicitauth.Yes.RequiresAuthentication())
	assert.True(t, implicitauth.AuthSelf.RequiresAuthentication())
	assert.True(t, implicitauth.AuthAdminKeep.RequiresAuthentication())
}
