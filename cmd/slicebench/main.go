package main

import (
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML workload file")
	flag.Parse()

	logrus.SetOutput(os.Stdout)
	cfg, err := LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel)
	logrus.SetLevel(level)

	if cfg.PprofAddr != "" {
		go func() {
			logrus.Warnf("pprof server stopped: %v", http.ListenAndServe(cfg.PprofAddr, nil))
		}()
	}
	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			logrus.Fatalf("create cpu profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			logrus.Fatalf("start cpu profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	failed := 0
	for _, w := range cfg.Workloads {
		res, err := Run(w)
		if err != nil {
			logrus.WithField("workload", w.Name).Errorf("run failed: %v", err)
			failed++
			continue
		}
		logrus.WithFields(logrus.Fields{
			"workload": res.Name,
			"kind":     w.Kind,
			"size":     w.Size,
			"mapped":   w.Mapped,
			"elapsed":  res.Elapsed,
		}).Infof("%.1f MiB/s", res.Throughput())
	}

	if cfg.MemProfile != "" {
		f, err := os.Create(cfg.MemProfile)
		if err != nil {
			logrus.Fatalf("create mem profile: %v", err)
		}
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			logrus.Errorf("write heap profile: %v", err)
		}
		f.Close()
	}
	if failed > 0 {
		logrus.Errorf("%d workload(s) failed", failed)
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}
