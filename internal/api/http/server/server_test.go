package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/authsys-server/internal/mocks"
)

func TestHTTPServer_Address(t *testing.T) {
	s := NewHTTPServer(http.NotFoundHandler(), ":0")
	assert.Equal(t, ":0", s.Address())
}

func TestHTTPServer_StartServesAndStops(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})
	srv := NewHTTPServer(handler, ":0")

	sec := mocks.NewSecurityLayer(t)
	listening := make(chan struct{})
	sec.On("Listen", "tcp", ":0").Return(ln, nil).Run(func(mock.Arguments) { close(listening) })

	errc := make(chan error, 1)
	go func() { errc <- srv.Start(sec) }()
	<-listening

	resp, err := http.Get(fmt.Sprintf("http://%s/", ln.Addr().String()))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "pong", string(body))

	require.NoError(t, srv.Stop(context.Background()))
	assert.NoError(t, <-errc)
}

func TestHTTPServer_StartListenError(t *testing.T) {
	srv := NewHTTPServer(http.NotFoundHandler(), ":0")

	sec := mocks.NewSecurityLayer(t)
	sec.On("Listen", "tcp", ":0").Return(nil, assert.AnError)

	err := srv.Start(sec)
	require.ErrorIs(t, err, assert.AnError)
}
