// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package generator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "infinitory_generate_duration_seconds",
			Help:    "Time taken to generate a complete report",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
	)

	generateTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "infinitory_generate_total",
			Help: "Total number of report generation attempts",
		},
		[]string{"status"}, // success or error
	)

	generateStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "infinitory_generate_step_duration_seconds",
			Help:    "Time taken by individual generation steps",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
		[]string{"step"},
	)

	reportNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "infinitory_report_nodes",
			Help: "Number of nodes in the last generated report",
		},
	)

	reportUniqueErrors = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "infinitory_report_unique_errors",
			Help: "Number of unique errors in the last generated report",
		},
	)
)
