package emailjs_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/ncn914491/folio/pkg/domain/model"
	"github.com/ncn914491/folio/pkg/infra/emailjs"
)

var testCredentials = emailjs.Credentials{
	ServiceID:  "service_x",
	TemplateID: "template_y",
	PublicKey:  "public_z",
}

func TestClient_Send(t *testing.T) {
	ctx := context.Background()
	msg := &model.RelayMessage{
		FromName:  "Alice",
		FromEmail: "alice@example.com",
		Message:   "Hello!",
		ToName:    "Site Owner",
	}

	t.Run("sends template params and credentials", func(t *testing.T) {
		var got map[string]any
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			gt.Equal(t, r.Method, http.MethodPost)
			gt.Equal(t, r.Header.Get("Content-Type"), "application/json")
			gt.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte("OK"))
		}))
		defer server.Close()

		client, err := emailjs.NewClient(testCredentials, emailjs.WithEndpoint(server.URL))
		gt.NoError(t, err)
		gt.NoError(t, client.Send(ctx, msg))

		gt.Equal(t, calls, 1)
		gt.Equal(t, got["service_id"], any("service_x"))
		gt.Equal(t, got["template_id"], any("template_y"))
		gt.Equal(t, got["user_id"], any("public_z"))
		_, hasToken := got["accessToken"]
		gt.False(t, hasToken)

		params, ok := got["template_params"].(map[string]any)
		gt.True(t, ok)
		gt.Equal(t, params["from_name"], any("Alice"))
		gt.Equal(t, params["from_email"], any("alice@example.com"))
		gt.Equal(t, params["message"], any("Hello!"))
		gt.Equal(t, params["to_name"], any("Site Owner"))
	})

	t.Run("private key is sent as access token", func(t *testing.T) {
		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&got)
		}))
		defer server.Close()

		creds := testCredentials
		creds.PrivateKey = "private_k"
		client, err := emailjs.NewClient(creds, emailjs.WithEndpoint(server.URL))
		gt.NoError(t, err)
		gt.NoError(t, client.Send(ctx, msg))
		gt.Equal(t, got["accessToken"], any("private_k"))
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		for _, status := range []int{http.StatusAccepted, http.StatusBadRequest, http.StatusInternalServerError} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))

			client, err := emailjs.NewClient(testCredentials, emailjs.WithEndpoint(server.URL))
			gt.NoError(t, err)
			gt.Error(t, client.Send(ctx, msg))
			server.Close()
		}
	})

	t.Run("transport failure is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		endpoint := server.URL
		server.Close()

		client, err := emailjs.NewClient(testCredentials, emailjs.WithEndpoint(endpoint))
		gt.NoError(t, err)
		gt.Error(t, client.Send(ctx, msg))
	})
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := emailjs.NewClient(emailjs.Credentials{ServiceID: "s"})
	gt.Error(t, err)
}
