package apierror

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Deadline(t *testing.T) {
	err := Classify(context.DeadlineExceeded, KindUploadTimeout)
	assert.Equal(t, KindUploadTimeout, err.Kind)

	wrapped := errors.Join(errors.New("upload failed"), context.DeadlineExceeded)
	err = Classify(wrapped, KindUpdateTimeout)
	assert.Equal(t, KindUpdateTimeout, err.Kind)
}

func TestClassify_Mensajes(t *testing.T) {
	cases := []struct {
		msg  string
		kind Kind
	}{
		{"pq: permission denied for table cortes", KindPermissionDenied},
		{"ERROR: insufficient privilege (SQLSTATE 42501)", KindPermissionDenied},
		{"dial tcp 127.0.0.1:5432: connection refused", KindUnavailable},
		{"read tcp: connection reset by peer", KindUnavailable},
		{"dial tcp: lookup db.internal: no such host", KindUnavailable},
		{"driver: bad connection", KindUnavailable},
		{"something exploded", KindUnknown},
	}
	for _, tc := range cases {
		err := Classify(errors.New(tc.msg), KindUpdateTimeout)
		assert.Equal(t, tc.kind, err.Kind, "message: %s", tc.msg)
	}
}

func TestClassify_PassthroughClasificado(t *testing.T) {
	original := New(KindValidation, "ya clasificado")
	err := Classify(original, KindUploadTimeout)
	assert.Same(t, original, err)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(KindValidation))
	assert.Equal(t, http.StatusGatewayTimeout, HTTPStatus(KindUploadTimeout))
	assert.Equal(t, http.StatusGatewayTimeout, HTTPStatus(KindUpdateTimeout))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(KindPermissionDenied))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(KindUnavailable))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(KindNotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindUnknown))
}

func TestEnvelope(t *testing.T) {
	env := Envelope(Validation(map[string]string{"valor": "debe ser mayor a 0"}))
	assert.Equal(t, KindValidation, env.Kind)
	assert.Equal(t, "debe ser mayor a 0", env.Fields["valor"])

	env = Envelope(errors.New("plain"))
	assert.Equal(t, KindUnknown, env.Kind)
	assert.Equal(t, "plain", env.Detail)
}
