package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectedClientsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "broadside_server_connected_clients",
		Help: "Number of currently connected remote helm clients.",
	})
	receivedBytesCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broadside_server_received_bytes_total",
		Help: "Total bytes received from clients.",
	})
	processedClientMessagesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "broadside_server_commands_received_total",
		Help: "Total command messages received from clients, by validity.",
	}, []string{"valid"})
	sentServerMessagesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "broadside_server_sent_messages_total",
		Help: "Total messages queued for clients, by type.",
	}, []string{"type"})
	sentBytesCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broadside_server_sent_bytes_total",
		Help: "Total bytes queued for clients.",
	})
	droppedMessagesCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broadside_server_dropped_messages_total",
		Help: "Messages dropped because a client's send buffer was full.",
	})
)
