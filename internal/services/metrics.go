package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	listsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "todolist",
			Name:      "lists_created_total",
			Help:      "Custom lists created, by the route that created them.",
		},
		[]string{"via"},
	)

	todaySeededTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "todolist",
			Name:      "today_seeded_total",
			Help:      "Times the empty Today collection was seeded with defaults.",
		},
	)
)
