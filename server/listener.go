package server

import (
	"net"
	"time"

	"github.com/vipmap/inventory-server/metrics"
)

type monitorableConnection struct {
	net.Conn
	metrics metrics.Engine
}

type monitorableListener struct {
	*net.TCPListener
	metrics metrics.Engine
}

func (l *monitorableConnection) Close() error {
	l.metrics.RecordClosedConnection()
	return l.Conn.Close()
}

func (ln *monitorableListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return nil, err
	}

	tc.SetKeepAlive(true)
	tc.SetKeepAlivePeriod(3 * time.Minute)
	ln.metrics.RecordNewConnection()
	return &monitorableConnection{
		tc,
		ln.metrics,
	}, nil
}
