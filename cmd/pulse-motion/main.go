// Command pulse-motion drives a heartbeat LED from a PIR motion sensor.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/pulse-motion/internal/gpio"
	"github.com/sweeney/pulse-motion/internal/motion"
	"github.com/sweeney/pulse-motion/internal/mqtt"
	"github.com/sweeney/pulse-motion/internal/pulse"
	"github.com/sweeney/pulse-motion/internal/status"
	"github.com/sweeney/pulse-motion/internal/web"
)

type options struct {
	tick          time.Duration
	poll          time.Duration
	debugInterval time.Duration
	reportEvery   time.Duration
	pinMotion     int
	pinLED        int
	pwmFreq       int
	broker        string
	wsBroker      string
	httpAddr      string
	followMotion  bool
	flash         bool
	printState    bool
}

func main() {
	var o options
	flag.DurationVar(&o.tick, "tick", time.Millisecond, "Heartbeat update interval")
	flag.DurationVar(&o.poll, "poll", 50*time.Millisecond, "Motion sensor polling interval")
	flag.DurationVar(&o.debugInterval, "debug-interval", motion.DefaultDebugInterval, "Minimum interval between PIR debug lines")
	flag.DurationVar(&o.reportEvery, "status-interval", 15*time.Minute, "Periodic STATUS telemetry interval (0 to disable)")
	flag.IntVar(&o.pinMotion, "pin-motion", gpio.DefaultPinMotion, "BCM pin number for the PIR sensor")
	flag.IntVar(&o.pinLED, "pin-led", gpio.DefaultPinLED, "BCM pin number for the LED (must support hardware PWM)")
	flag.IntVar(&o.pwmFreq, "pwm-freq", gpio.DefaultPWMFreq, "LED PWM frequency in Hz")
	flag.StringVar(&o.broker, "broker", "", "MQTT broker address for telemetry (empty to disable)")
	wsBroker := flag.String("ws-broker", "=broker", `MQTT websocket URL for the live page ("=broker" derives from --broker, "off" disables)`)
	flag.StringVar(&o.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	flag.BoolVar(&o.followMotion, "follow-motion", true, "Run the heartbeat only while motion is present")
	flag.BoolVar(&o.flash, "flash", true, "Flash the LED three times before the heartbeat starts")
	flag.BoolVar(&o.printState, "print-state", false, "Print current motion state and exit")

	flag.Parse()
	o.wsBroker = resolveWSBroker(*wsBroker, o.broker)

	if err := run(o); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func (o options) statusConfig() status.Config {
	return status.Config{
		TickMs:       o.tick.Milliseconds(),
		PollMs:       o.poll.Milliseconds(),
		DebugMs:      o.debugInterval.Milliseconds(),
		StatusMs:     o.reportEvery.Milliseconds(),
		PinMotion:    o.pinMotion,
		PinLED:       o.pinLED,
		PWMFreq:      o.pwmFreq,
		FollowMotion: o.followMotion,
		Flash:        o.flash,
		Broker:       o.broker,
		WSBroker:     o.wsBroker,
		HTTPAddr:     o.httpAddr,
	}
}

func run(o options) error {
	if o.tick <= 0 || o.poll <= 0 {
		return fmt.Errorf("tick and poll intervals must be positive (tick=%v poll=%v)", o.tick, o.poll)
	}
	if o.debugInterval < 0 || o.reportEvery < 0 {
		return fmt.Errorf("debug and status intervals must not be negative (debug-interval=%v status-interval=%v)", o.debugInterval, o.reportEvery)
	}

	reader, err := gpio.NewMotionReader(o.pinMotion)
	if err != nil {
		return fmt.Errorf("init motion sensor: %w", err)
	}
	defer reader.Close()
	log.Printf("PIR motion sensor initialized on pin %d", o.pinMotion)

	if o.printState {
		m, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read motion pin: %w", err)
		}
		fmt.Printf("MOTION: %s\n", stateString(m))
		return nil
	}

	output, err := gpio.NewPWMOutput(o.pinLED, o.pwmFreq)
	if err != nil {
		return fmt.Errorf("init led: %w", err)
	}
	defer output.Close()
	log.Printf("LED initialized on pin %d", o.pinLED)

	var publisher mqtt.Publisher = mqtt.NopPublisher{}
	var mqttStatus mqtt.ConnectionStatus = mqtt.NopPublisher{}
	if o.broker != "" {
		rp := mqtt.NewRealPublisher(o.broker)
		publisher, mqttStatus = rp, rp
	}
	defer publisher.Close()

	startTime := time.Now()
	tracker := status.NewTracker(startTime, o.statusConfig())
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	if o.httpAddr != "" {
		srv := web.New(o.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", o.httpAddr)
	}

	log.Printf("started: tick=%v poll=%v follow-motion=%v broker=%q status-interval=%v", o.tick, o.poll, o.followMotion, o.broker, o.reportEvery)

	nowMs := millisClock(startTime)
	l := &controlLoop{
		reader:       reader,
		output:       output,
		seq:          pulse.New(output, nowMs),
		motion:       motion.NewTracker(),
		debug:        motion.NewDebugEmitter(o.debugInterval, log.Default()),
		publisher:    publisher,
		mqttStatus:   mqttStatus,
		tracker:      tracker,
		pinMotion:    o.pinMotion,
		followMotion: o.followMotion,
		flash:        o.flash,
		reportEvery:  o.reportEvery,
		now:          time.Now,
		nowMs:        nowMs,
		sleep:        time.Sleep,
	}

	pulseTicker := time.NewTicker(o.tick)
	defer pulseTicker.Stop()
	pollTicker := time.NewTicker(o.poll)
	defer pollTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return l.run(pulseTicker.C, pollTicker.C, sigCh)
}

// controlLoop is the single cooperative loop that owns every peripheral.
// Nothing it calls per pulse tick may block.
type controlLoop struct {
	reader     gpio.MotionReader
	output     pulse.Output
	seq        *pulse.Sequencer
	motion     *motion.Tracker
	debug      *motion.DebugEmitter
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker

	pinMotion    int
	followMotion bool
	flash        bool
	reportEvery  time.Duration

	now   func() time.Time
	nowMs pulse.Clock
	sleep func(time.Duration)
}

func (l *controlLoop) run(pulseTick, pollTick <-chan time.Time, sig <-chan os.Signal) error {
	if !l.followMotion {
		l.startHeartbeat()
	}

	for {
		select {
		case s := <-sig:
			l.shutdown(s)
			return nil

		case <-pulseTick:
			l.seq.Update()

		case <-pollTick:
			l.poll()
		}
	}
}

func (l *controlLoop) poll() {
	t := l.now()
	m, err := l.reader.Read()
	if err != nil {
		log.Printf("gpio read error: %v", err)
		return
	}

	l.debug.Emit(l.pinMotion, m, l.nowMs())

	if event := l.motion.Process(m, t); event != nil {
		log.Printf("event: %s", event.Type)
		if err := l.publisher.Publish(*event); err != nil {
			log.Printf("publish error: %v", err)
		}
	}

	if l.followMotion {
		switch {
		case l.motion.Motion() && !l.seq.IsActive():
			l.startHeartbeat()
		case !l.motion.Motion() && l.seq.IsActive():
			l.stopHeartbeat()
		}
	}

	if l.motion.ReportDue(t, l.reportEvery) {
		l.report(t)
	}

	l.updateStatus()
}

// report publishes a STATUS snapshot with fresh network info.
func (l *controlLoop) report(t time.Time) {
	c := l.motion.Counts()
	log.Printf("status: detected=%d cleared=%d beats=%d", c.Detected, c.Cleared, l.seq.Beats())

	if net := readNetworkInfo(); net != nil {
		l.tracker.SetNetwork(net)
	}
	l.updateStatus()
	event := mqtt.SystemEvent{
		Timestamp:  t,
		Event:      "STATUS",
		RawPayload: status.FormatStatusEvent(l.tracker.Snapshot(), "STATUS", ""),
	}
	if err := l.publisher.PublishSystem(event); err != nil {
		log.Printf("status publish error: %v", err)
	}
}

// startHeartbeat optionally flashes the LED (blocking) and then starts the
// sequencer. It runs from the poll path, never from a pulse tick.
func (l *controlLoop) startHeartbeat() {
	if l.flash {
		pulse.Flash(l.output, l.sleep)
	}
	l.seq.Start()
	log.Printf("starting heartbeat effect")
}

func (l *controlLoop) stopHeartbeat() {
	l.seq.Stop()
	log.Printf("stopping heartbeat effect")
}

func (l *controlLoop) updateStatus() {
	l.tracker.UpdateMotion(l.motion.State(), l.motion.Since(), l.motion.IsBaselined(), l.motion.Counts())
	phase := ""
	if l.seq.IsActive() {
		phase = l.seq.Phase().String()
	}
	l.tracker.UpdatePulse(status.Pulse{
		Active:    l.seq.IsActive(),
		Phase:     phase,
		Intensity: l.seq.Intensity(),
		Beats:     l.seq.Beats(),
	})
	if l.mqttStatus != nil {
		l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
	}
}

func (l *controlLoop) shutdown(s os.Signal) {
	log.Printf("received %v, shutting down", s)
	l.stopHeartbeat()

	signalName := "UNKNOWN"
	if s == syscall.SIGINT {
		signalName = "SIGINT"
	} else if s == syscall.SIGTERM {
		signalName = "SIGTERM"
	}

	l.updateStatus()
	snap := l.tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  l.now(),
		Event:      "SHUTDOWN",
		Reason:     signalName,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
	}
	if err := l.publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	}
}

// millisClock returns free-running milliseconds since start, wrapping at 2^32.
func millisClock(start time.Time) pulse.Clock {
	return func() uint32 {
		return millisSince(start, time.Now())
	}
}

func millisSince(start, now time.Time) uint32 {
	return uint32(now.Sub(start).Milliseconds())
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

// resolveWSBroker turns the --ws-broker flag into a URL for the live page.
// "=broker" derives ws://host:9001 from the TCP broker; "off" or no broker
// disables it.
func resolveWSBroker(ws, broker string) string {
	if ws == "off" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	if broker == "" {
		return ""
	}
	u, err := url.Parse(broker)
	if err != nil || u.Hostname() == "" {
		log.Printf("ws-broker: cannot derive from --broker %q", broker)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}

func stateString(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
