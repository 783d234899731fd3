package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"bordersentry/config"
	"bordersentry/internal/alerts"
	"bordersentry/internal/camera"
	"bordersentry/internal/classifier"
	"bordersentry/internal/intrusion"
	"bordersentry/internal/logger"
	"bordersentry/internal/metrics"
	"bordersentry/internal/notify"
	"bordersentry/internal/output/alerthttp"
	"bordersentry/internal/output/alertjson"
	"bordersentry/internal/output/eventjson"
	"bordersentry/internal/output/eventredis"
	"bordersentry/internal/report"
	"bordersentry/internal/rng"
	"bordersentry/internal/rules"
	"bordersentry/internal/sensor"
	"bordersentry/internal/sim"
	"bordersentry/internal/verify"
)

func findConfigFile(configArg string) string {
	if configArg != "" {
		path := configArg
		if _, err := os.Stat(path); err == nil {
			return path
		}
		log.Printf("Warning: config file not found at %s, trying default locations", path)
	}

	if _, err := os.Stat("bordersentry.yml"); err == nil {
		return "bordersentry.yml"
	}

	exePath, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exePath)
		path := filepath.Join(exeDir, "bordersentry.yml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "bordersentry.yml"
}

func applyDefaults(cfg *config.Config) {
	bs := &cfg.BorderSentry

	if bs.Network.SensorNodes == 0 {
		bs.Network.SensorNodes = 32
	}
	if bs.Network.ClusterHeads == 0 {
		bs.Network.ClusterHeads = 4
	}
	if bs.Network.BorderLength == 0 {
		bs.Network.BorderLength = 1000
	}
	if bs.Network.SensorRange == 0 {
		bs.Network.SensorRange = 50
	}

	if bs.Energy.InitialBatteryMax == 0 {
		bs.Energy.InitialBatteryMin = 80
		bs.Energy.InitialBatteryMax = 100
	}
	if bs.Energy.DrainCost == 0 {
		bs.Energy.DrainCost = 0.5
	}
	if bs.Energy.RechargeRate == 0 {
		bs.Energy.RechargeRate = 2.0
	}
	if bs.Energy.ReactivationThreshold == 0 {
		bs.Energy.ReactivationThreshold = 20
	}

	if bs.Intrusion.DurationMin == 0 {
		bs.Intrusion.DurationMin = 2
	}
	if bs.Intrusion.DurationMax == 0 {
		bs.Intrusion.DurationMax = 5
	}
	if bs.Intrusion.Weights.Human == 0 && bs.Intrusion.Weights.Animal == 0 && bs.Intrusion.Weights.Vehicle == 0 {
		bs.Intrusion.Weights = config.IntrusionWeights{Human: 1, Animal: 1, Vehicle: 1}
	}

	if len(bs.Classifier.Schema) == 0 {
		bs.Classifier.Schema = append([]string(nil), defaultSchema()...)
	}

	if bs.Alerts.ConfidenceThreshold == 0 {
		bs.Alerts.ConfidenceThreshold = 0.9
	}
	if bs.Alerts.CooldownCycles == 0 {
		bs.Alerts.CooldownCycles = 3
	}
	if bs.Alerts.Output.Mode == "" {
		bs.Alerts.Output.Mode = "file"
	}
	if bs.Alerts.Output.File.Path == "" {
		bs.Alerts.Output.File.Path = "output/alerts.jsonl"
	}

	if bs.Events.File.Path == "" {
		bs.Events.File.Path = "output/events.jsonl"
	}
	if bs.Events.Redis.Addr == "" {
		bs.Events.Redis.Addr = "127.0.0.1:6379"
	}
	if bs.Events.Redis.Key == "" {
		bs.Events.Redis.Key = "bordersentry_events"
	}

	if bs.Notifications.Channel == "" {
		bs.Notifications.Channel = "SECURE-DATALINK-1"
	}
	if bs.Notifications.Recipient == "" {
		bs.Notifications.Recipient = "command@border-cc.example"
	}

	if bs.Metrics.Listen == "" {
		bs.Metrics.Listen = "127.0.0.1:9321"
	}

	if bs.Simulation.Cycles == 0 {
		bs.Simulation.Cycles = 120
	}

	if bs.Logging.Level == "" {
		bs.Logging.Level = "info"
	}
}

func defaultSchema() []string {
	return []string{
		"motion_total",
		"vibration_avg",
		"vibration_max",
		"temperature_avg",
		"temperature_max",
		"acoustic_avg",
		"acoustic_max",
		"active_nodes",
		"battery_avg",
	}
}

func runSimulation(args []string) int {
	configArg := ""
	if len(args) > 0 {
		configArg = args[0]
	}

	configPath := findConfigFile(configArg)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	bs := &cfg.BorderSentry

	if err := logger.Init(bs.Logging.Enabled, bs.Logging.Level, bs.Logging.File, bs.Logging.Console); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Infof("BorderSentry starting")
	logger.Infof("Config loaded from: %s", configPath)
	logger.Infof("Network: %d sensor nodes, %d cluster heads, border %.0fm, seed %d",
		bs.Network.SensorNodes, bs.Network.ClusterHeads, bs.Network.BorderLength, bs.Simulation.Seed)

	streams := rng.New(bs.Simulation.Seed)

	deployment := sim.Deploy(sim.DeployConfig{
		SensorNodes:       bs.Network.SensorNodes,
		ClusterHeads:      bs.Network.ClusterHeads,
		BorderLength:      bs.Network.BorderLength,
		InitialBatteryMin: bs.Energy.InitialBatteryMin,
		InitialBatteryMax: bs.Energy.InitialBatteryMax,
		Node: sensor.Config{
			MotionTriggerProb:     bs.Sensors.MotionTriggerProb,
			Vibration:             sensor.Range{Min: bs.Sensors.Vibration.Min, Max: bs.Sensors.Vibration.Max},
			TemperatureC:          sensor.Range{Min: bs.Sensors.TemperatureC.Min, Max: bs.Sensors.TemperatureC.Max},
			Acoustic:              sensor.Range{Min: bs.Sensors.Acoustic.Min, Max: bs.Sensors.Acoustic.Max},
			SignalStrength:        sensor.Range{Min: bs.Sensors.SignalStrength.Min, Max: bs.Sensors.SignalStrength.Max},
			DrainCost:             bs.Energy.DrainCost,
			RechargeRate:          bs.Energy.RechargeRate,
			ReactivationThreshold: bs.Energy.ReactivationThreshold,
		},
	}, streams.Sensor)

	injector := intrusion.New(intrusion.Config{
		SpawnProbability: bs.Intrusion.SpawnProbability,
		Weights: intrusion.Weights{
			Human:   bs.Intrusion.Weights.Human,
			Animal:  bs.Intrusion.Weights.Animal,
			Vehicle: bs.Intrusion.Weights.Vehicle,
		},
		DurationMin:  bs.Intrusion.DurationMin,
		DurationMax:  bs.Intrusion.DurationMax,
		BorderLength: bs.Network.BorderLength,
		SensorRange:  bs.Network.SensorRange,
	}, streams.Intrusion)

	var model classifier.Classifier
	if strings.TrimSpace(bs.Classifier.ModelPath) != "" {
		m, err := classifier.Load(bs.Classifier.ModelPath)
		if err != nil {
			logger.Errorf("Failed to load classifier model from %s: %v", bs.Classifier.ModelPath, err)
			log.Fatalf("Failed to load classifier model: %v", err)
		}
		model = m
		logger.Infof("Classifier model loaded from: %s", bs.Classifier.ModelPath)
	} else {
		model = classifier.Default()
		logger.Infof("Classifier model: built-in defaults")
	}

	cameras := make([]*camera.Camera, 0, len(deployment.Heads))
	cameraByCluster := make(map[string]*camera.Camera, len(deployment.Heads))
	camCfg := camera.Config{
		FaultProb:    bs.Verification.CameraFaultProb,
		RecoveryProb: bs.Verification.CameraRecoveryProb,
	}
	for _, head := range deployment.Heads {
		cam := camera.New(head.ID(), camCfg, streams.Camera)
		cameras = append(cameras, cam)
		cameraByCluster[head.ID()] = cam
	}

	verifier := verify.NewStage(bs.Verification.MinConfirm, cameraByCluster, streams.Verify)

	var engine rules.Engine
	if bs.Rules.Enabled {
		if strings.TrimSpace(bs.Rules.Path) == "" {
			logger.Warnf("Rules enabled but rules.path is empty; escalation tagging disabled")
		} else {
			sigmaEngine, stats, err := rules.NewSigmaEngine(bs.Rules.Path)
			if err != nil {
				logger.Errorf("Failed to load Sigma rules from %s: %v", bs.Rules.Path, err)
				log.Fatalf("Failed to load Sigma rules: %v", err)
			}
			engine = sigmaEngine
			logger.Infof("Sigma rules loaded: loaded=%d skipped_complex=%d skipped_datasource=%d skipped_invalid=%d files=%d",
				stats.Loaded,
				stats.SkippedComplex,
				stats.SkippedDatasource,
				stats.SkippedInvalid,
				stats.TotalFiles,
			)
			if stats.Loaded == 0 {
				logger.Warnf("No compatible Sigma rules loaded; escalation tagging is effectively disabled")
			}
		}
	}

	var dispatcher *alerts.Dispatcher
	var notifier *notify.Notifier
	var alertWriter sim.AlertWriter
	if bs.Alerts.Enabled {
		dispatcher = alerts.NewDispatcher(alerts.Config{
			ConfidenceThreshold: bs.Alerts.ConfidenceThreshold,
			CooldownCycles:      bs.Alerts.CooldownCycles,
		})
		notifier = notify.New(notify.Config{
			DatalinkEnabled:   bs.Notifications.DatalinkEnabled,
			CommandLogEnabled: bs.Notifications.CommandLogEnabled,
			Channel:           bs.Notifications.Channel,
			Recipient:         bs.Notifications.Recipient,
		})
		switch bs.Alerts.Output.Mode {
		case "file":
			w, err := alertjson.NewWriter(bs.Alerts.Output.File.Path)
			if err != nil {
				logger.Errorf("Failed to create alert file writer: %v", err)
				log.Fatalf("Failed to create alert file writer: %v", err)
			}
			alertWriter = w
			logger.Infof("Alert output mode: file (%s)", bs.Alerts.Output.File.Path)
		case "http":
			w, err := alerthttp.NewWriter(alerthttp.Config{
				URL:     bs.Alerts.Output.HTTP.URL,
				Timeout: bs.Alerts.Output.HTTP.Timeout,
				Headers: bs.Alerts.Output.HTTP.Headers,
			})
			if err != nil {
				logger.Errorf("Failed to create alert HTTP writer: %v", err)
				log.Fatalf("Failed to create alert HTTP writer: %v", err)
			}
			alertWriter = w
			logger.Infof("Alert output mode: http (%s)", bs.Alerts.Output.HTTP.URL)
		default:
			log.Fatalf("Unknown alert output mode: %s", bs.Alerts.Output.Mode)
		}
	}

	var eventWriters []sim.EventWriter
	fileWriter, err := eventjson.NewWriter(bs.Events.File.Path)
	if err != nil {
		logger.Errorf("Failed to create event file writer: %v", err)
		log.Fatalf("Failed to create event file writer: %v", err)
	}
	eventWriters = append(eventWriters, fileWriter)
	logger.Infof("Event output: file (%s)", bs.Events.File.Path)

	if bs.Events.Redis.Enabled {
		pub, err := eventredis.NewPublisher(eventredis.Config{
			Addr:     bs.Events.Redis.Addr,
			Password: bs.Events.Redis.Password,
			DB:       bs.Events.Redis.DB,
			Key:      bs.Events.Redis.Key,
		})
		if err != nil {
			logger.Errorf("Failed to create Redis event publisher: %v", err)
			log.Fatalf("Failed to create Redis event publisher: %v", err)
		}
		eventWriters = append(eventWriters, pub)
		logger.Infof("Event output: redis (%s key=%s)", bs.Events.Redis.Addr, bs.Events.Redis.Key)
	}

	var mtr *metrics.Metrics
	if bs.Metrics.Enabled {
		mtr = metrics.New()
		srv := &http.Server{Addr: bs.Metrics.Listen, Handler: mtr.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Errorf("Metrics server error: %v", err)
			}
		}()
		defer srv.Close()
		logger.Infof("Metrics listening on %s", bs.Metrics.Listen)
	}

	orch := sim.NewOrchestrator(sim.Params{
		Cycles:       bs.Simulation.Cycles,
		Deployment:   deployment,
		Injector:     injector,
		Classifier:   model,
		Verifier:     verifier,
		Cameras:      cameras,
		Rules:        engine,
		Dispatcher:   dispatcher,
		Notifier:     notifier,
		EventWriters: eventWriters,
		AlertWriter:  alertWriter,
		Metrics:      mtr,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- orch.Run(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	exit := 0
	select {
	case sig := <-sigCh:
		logger.Infof("Received %v, stopping after current cycle", sig)
		cancel()
		<-done
	case err := <-done:
		if err != nil && err != context.Canceled {
			logger.Errorf("Simulation error: %v", err)
			exit = 1
		}
	}

	if err := orch.Close(); err != nil {
		logger.Errorf("Error closing outputs: %v", err)
	}

	logger.Infof("BorderSentry stopped: cycles=%d events=%d intrusions=%d",
		orch.CompletedCycles(), len(orch.Events()), injector.TotalSpawned())
	if dispatcher != nil {
		logger.Infof("Alerts: dispatched=%d suppressed=%d", len(dispatcher.Dispatched()), dispatcher.Suppressed())
	}
	return exit
}

func runReport(args []string) int {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	input := fs.String("input", "output/events.jsonl", "Detection event JSONL input path")
	output := fs.String("output", "output/report.html", "HTML report output path")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	events, err := eventjson.ReadEvents(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load events: %v\n", err)
		return 1
	}

	start := time.Now()
	if err := report.Render(events, *output); err != nil {
		fmt.Fprintf(os.Stderr, "failed to render report: %v\n", err)
		return 1
	}

	fmt.Printf("report rendered events=%d output=%s elapsed=%s\n", len(events), *output, time.Since(start).Round(time.Millisecond))
	return 0
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "run":
			os.Exit(runSimulation(os.Args[2:]))
		case "report":
			os.Exit(runReport(os.Args[2:]))
		default:
			// Backward-compatible mode: first arg is config path.
			os.Exit(runSimulation(os.Args[1:]))
		}
	}

	os.Exit(runSimulation(nil))
}
