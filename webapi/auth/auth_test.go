package auth_test

import (
	"net/http"
	"testing"

	"github.com/amirasaad/splitpay/pkg/domain/user"
	"github.com/amirasaad/splitpay/pkg/testutils"
	webtest "github.com/amirasaad/splitpay/webapi/testutils"
	"github.com/stretchr/testify/assert"
)

func TestLogin(t *testing.T) {
	env := webtest.SetupTestApp(t)
	acc := testutils.CreateAccount(t, env.DB, testutils.SenderINN, "0")
	testutils.CreateUser(t, env.DB, acc, "secret", user.CanViewAccounts)

	token := webtest.Login(t, env.App, acc.Username, "secret")
	assert.NotEmpty(t, token)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"wrong password", `{"username":"` + acc.Username + `","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"username":"ghost","password":"secret"}`, http.StatusUnauthorized},
		{"missing password", `{"username":"` + acc.Username + `"}`, http.StatusBadRequest},
		{"malformed body", `{"username":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := webtest.MakeRequest(t, env.App, http.MethodPost, "/login", tt.body, "")
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
		})
	}
}
