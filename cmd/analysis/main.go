// Command analysis renders benchmark snapshots written by the runner
// into an HTML page of latency histograms plus a stats JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/montanaflynn/stats"

	"dilithium-sign/measure"
)

type summaryStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	IQR    float64 `json:"iqr"`
}

func computeStats(x []float64) summaryStats {
	if len(x) == 0 {
		return summaryStats{}
	}
	mean, _ := stats.Mean(x)
	std, _ := stats.StandardDeviation(x)
	minv, _ := stats.Min(x)
	maxv, _ := stats.Max(x)
	median, _ := stats.Median(x)
	q, _ := stats.Quartile(x)
	return summaryStats{
		Count:  len(x),
		Mean:   mean,
		Std:    std,
		Min:    minv,
		Q1:     q.Q1,
		Median: median,
		Q3:     q.Q3,
		Max:    maxv,
		IQR:    q.Q3 - q.Q1,
	}
}

func freedmanDiaconisBins(x []float64, st summaryStats) int {
	n := len(x)
	if n < 2 {
		return 1
	}
	if st.IQR == 0 {
		if n < 50 {
			return n
		}
		return 50
	}
	bw := 2 * st.IQR * math.Pow(float64(n), -1.0/3.0)
	k := int(math.Ceil((st.Max - st.Min) / bw))
	if k < 10 {
		k = 10
	}
	if k > 500 {
		k = 500
	}
	return k
}

func computeHistogram(values []float64, st summaryStats, nbins int) (edges []float64, counts []int) {
	width := (st.Max - st.Min) / float64(nbins)
	if width <= 0 {
		width = 1
	}
	edges = make([]float64, nbins+1)
	for i := 0; i <= nbins; i++ {
		edges[i] = st.Min + float64(i)*width
	}
	counts = make([]int, nbins)
	for _, v := range values {
		idx := int(math.Floor((v - st.Min) / width))
		if idx < 0 {
			idx = 0
		}
		if idx >= nbins {
			idx = nbins - 1
		}
		counts[idx]++
	}
	return
}

func toBarItems(vals []int) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func newHistogramChart(title string, values []float64, st summaryStats) *charts.Bar {
	nbins := freedmanDiaconisBins(values, st)
	edges, counts := computeHistogram(values, st, nbins)
	xLabels := make([]string, nbins)
	for i := 0; i < nbins; i++ {
		center := 0.5 * (edges[i] + edges[i+1])
		xLabels[i] = fmt.Sprintf("%.3f", center)
	}
	bar := charts.NewBar()
	subtitle := fmt.Sprintf("n=%d, mean=%.3fms, std=%.3fms, median=%.3fms, IQR=%.3fms", st.Count, st.Mean, st.Std, st.Median, st.IQR)
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(xLabels).
		AddSeries("count", toBarItems(counts)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

func saveJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func main() {
	outDir := flag.String("out", "Measure_Reports", "output directory for reports")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("usage: analysis [-out dir] snapshot.json ...")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}

	page := components.NewPage()
	outStats := make(map[string]summaryStats)

	add := func(name string, vals []float64) {
		if len(vals) == 0 {
			return
		}
		st := computeStats(vals)
		outStats[name] = st
		page.AddCharts(newHistogramChart(name, vals, st))
	}

	for _, path := range flag.Args() {
		snap, err := measure.Load(path)
		if err != nil {
			log.Fatalf("load %s: %v", path, err)
		}
		prefix := fmt.Sprintf("%s/%s", snap.Params, snap.Engine)
		fmt.Printf("%s: %d iterations, digest %s\n", prefix, len(snap.SignMs), snap.Digest)
		add(prefix+" keygen (ms)", snap.KeygenMs)
		add(prefix+" sign (ms)", snap.SignMs)
		add(prefix+" verify (ms)", snap.VerifyMs)
	}

	ts := time.Now().Format("20060102_150405")
	jsonPath := filepath.Join(*outDir, fmt.Sprintf("latency_stats_%s.json", ts))
	if err := saveJSON(jsonPath, outStats); err != nil {
		log.Printf("warn: save stats: %v", err)
	}

	htmlPath := filepath.Join(*outDir, fmt.Sprintf("latency_histograms_%s.html", ts))
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("create html: %v", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("render html: %v", err)
	}
	fmt.Println("Histogram page:", htmlPath)
	fmt.Println("Stats JSON:", jsonPath)
}
