package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"

	eb "epidemic-simulation/internal/eventBus"
	"epidemic-simulation/internal/metrics"
	pub "epidemic-simulation/internal/mqtt"
	"epidemic-simulation/internal/server"
	"epidemic-simulation/internal/sim"
	"epidemic-simulation/internal/utils"
)

func main() {
	cfg := flag.String("scenario", "scenario.yaml", "YAML or JSON scenario description")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000000"})
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Mirror everything into a timestamped log file as well as stdout.
	if err := os.MkdirAll("logs", 0755); err != nil {
		logger.Fatalf("failed to create logs directory: %v", err)
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logger.AddHook(lfshook.NewHook(
		"logs/log_"+timestamp+".log",
		&logrus.TextFormatter{FullTimestamp: true},
	))

	log := logger.WithField("prefix", "batch")
	log.Info("starting simulation batch")

	sc, err := sim.LoadScenario(*cfg)
	if err != nil {
		log.Fatalf("scenario: %v", err)
	}

	bus := eb.NewEventBus(log)
	coll := metrics.NewCollector()
	runner := sim.NewRunner(sc, bus, coll, log)

	if sc.Stream.Enabled {
		addr := sc.Stream.Addr
		if addr == "" {
			addr = ":8080"
		}
		go func() {
			if err := server.StartServer(addr, bus, log); err != nil {
				log.WithError(err).Error("server stopped")
			}
		}()
	}

	if sc.Mqtt.Enabled {
		publisher, err := pub.NewPublisher(sc.Mqtt.Broker, sc.Mqtt.ClientID, sc.Mqtt.Topic, byte(sc.Mqtt.QoS), log)
		if err != nil {
			log.Fatalf("mqtt: %v", err)
		}
		defer publisher.Disconnect()
		go publisher.Run(bus.Subscribe())
	}

	if *verbose {
		utils.MonitorResources(30*time.Second, log)
	}

	// 1) catch Ctrl-C / SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	// 2) run the batch in its own goroutine
	runErr := make(chan error, 1)
	go func() {
		runErr <- runner.Run()
	}()

	select {
	case err := <-runErr:
		if err != nil {
			log.WithError(err).Error("runner error")
		}
	case s := <-sigCh:
		log.Warnf("received signal %v: shutting down early", s)
		runner.Stop()
		if err := <-runErr; err != nil {
			log.WithError(err).Error("runner stopped with error")
		}
	}

	// 3) always flush results before exit
	if err := coll.Flush(sc.Logging.ResultsFile); err != nil {
		log.WithError(err).Error("flush-results")
	} else {
		log.Infof("batch complete, results written to %s", sc.Logging.ResultsFile)
	}
}
