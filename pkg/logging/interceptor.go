package logging

import (
	"context"
	"path"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// UnaryServerInterceptor 每個 RPC 建立一個 LogData，結束時輸出 Complete / Error
func UnaryServerInterceptor(logger *logrus.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		method := path.Base(info.FullMethod)
		logData := NewLogData(logger)
		logger.Debugf("Handler.%v.Start", method)

		endTimer := logData.AddTiming("durationMs")
		resp, err := handler(WithLogData(ctx, logData), req)
		endTimer()

		if err != nil {
			logData.AddData("code", status.Code(err).String())
			logData.Log().WithError(err).Warnf("Handler.%v.Error", method)
			return resp, err
		}
		logData.Log().Infof("Handler.%v.Complete", method)
		return resp, nil
	}
}

// UnaryClientInterceptor 客戶端版本：記錄每次呼叫的耗時與結果
func UnaryClientInterceptor(logger *logrus.Logger) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, fullMethod string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		method := path.Base(fullMethod)
		logData := NewLogData(logger)
		logData.AddData("target", cc.Target())

		endTimer := logData.AddTiming("durationMs")
		err := invoker(ctx, fullMethod, req, reply, cc, opts...)
		endTimer()

		if err != nil {
			logData.AddData("code", status.Code(err).String())
			logData.Log().WithError(err).Warnf("Client.%v.Error", method)
			return err
		}
		logData.Log().Debugf("Client.%v.Complete", method)
		return nil
	}
}
