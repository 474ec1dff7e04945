package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		out = append(out, m)
	}
	return out
}

func TestNewLoggerLevels(t *testing.T) {
	logger, err := newLogger(&bytes.Buffer{}, "")
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.Level)

	logger, err = newLogger(&bytes.Buffer{}, "debug")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.Level)

	_, err = newLogger(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
}

func TestLogDataFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := newLogger(buf, "info")
	require.NoError(t, err)

	logData := NewLogData(logger)
	logData.AddData("accountId", 7)
	logData.AddTiming("durationMs")()
	logData.Log().Info("done")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "info", lines[0]["loglevel"])
	assert.Equal(t, float64(7), lines[0]["accountId"])
	assert.Contains(t, lines[0], "durationMs")
}

func TestUnaryServerInterceptor(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := newLogger(buf, "info")
	require.NoError(t, err)

	interceptor := UnaryServerInterceptor(logger)
	info := &grpc.UnaryServerInfo{FullMethod: "/ledger.v1.LedgerService/GetBalance"}

	resp, err := interceptor(context.Background(), "req", info, func(ctx context.Context, req any) (any, error) {
		GetLogData(ctx).AddData("accountId", 1)
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	_, err = interceptor(context.Background(), "req", info, func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.NotFound, errors.New("account not found").Error())
	})
	assert.Equal(t, codes.NotFound, status.Code(err))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "Handler.GetBalance.Complete", lines[0]["msg"])
	assert.Equal(t, float64(1), lines[0]["accountId"])
	assert.Equal(t, "Handler.GetBalance.Error", lines[1]["msg"])
	assert.Equal(t, "NotFound", lines[1]["code"])
}

func TestUnaryClientInterceptor(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := newLogger(buf, "debug")
	require.NoError(t, err)

	cc, err := grpc.NewClient("passthrough:///ledger", grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer cc.Close()

	interceptor := UnaryClientInterceptor(logger)
	method := "/ledger.v1.LedgerService/AddTransaction"

	calls := 0
	err = interceptor(context.Background(), method, "req", "reply", cc,
		func(ctx context.Context, m string, req, reply any, _ *grpc.ClientConn, _ ...grpc.CallOption) error {
			calls++
			assert.Equal(t, method, m)
			return nil
		})
	require.NoError(t, err)

	err = interceptor(context.Background(), method, "req", "reply", cc,
		func(context.Context, string, any, any, *grpc.ClientConn, ...grpc.CallOption) error {
			calls++
			return status.Error(codes.FailedPrecondition, "insufficient funds")
		})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	assert.Equal(t, 2, calls)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "Client.AddTransaction.Complete", lines[0]["msg"])
	assert.Equal(t, "passthrough:///ledger", lines[0]["target"])
	assert.Equal(t, "Client.AddTransaction.Error", lines[1]["msg"])
	assert.Equal(t, "FailedPrecondition", lines[1]["code"])
	assert.Equal(t, "warning", lines[1]["loglevel"])
}

func TestGetLogDataMissing(t *testing.T) {
	assert.Nil(t, GetLogData(context.Background()))
}
