package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	promptsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vault_prompts_created_total",
		Help: "Total number of created prompts.",
	})

	searchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vault_searches_total",
		Help: "Total number of search requests.",
	})

	imagesUploadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vault_images_uploaded_total",
		Help: "Total number of uploaded prompt images.",
	})

	executionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_executions_total",
			Help: "Total number of prompt executions by outcome.",
		},
		[]string{"status"},
	)
)
