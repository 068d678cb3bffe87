// Entry point

package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/toml"

	"fpc-server/internal/config"
	"fpc-server/internal/conn"
	"fpc-server/internal/dispatch"
	"fpc-server/internal/driver"
	"fpc-server/internal/history"
	"fpc-server/internal/registry"
	"fpc-server/internal/statusweb"
)

// Default file name for the configuration file
const defConfName = "server.toml"

func main() {
	confFile := flag.String("conf", defConfName, "Name of configuration file")
	dumpConf := flag.Bool("dump-config", false, "Dump default configuration")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(1)
	}

	if *dumpConf {
		enc := toml.NewEncoder(os.Stdout)
		if err := enc.Encode(config.Default); err != nil {
			log.Fatal("failed to encode default configuration: ", err)
		}
		os.Exit(0)
	}

	conf, err := config.Load(*confFile)
	if err != nil {
		if !os.IsNotExist(err) || *confFile != defConfName {
			log.Fatal(err)
		}
		fallback := config.Default
		conf = &fallback
	}
	config.ApplyDebug(*debugFlag || conf.Debug)

	if flag.NArg() == 1 {
		host, port, err := net.SplitHostPort(flag.Arg(0))
		if err != nil {
			log.Fatal("invalid listen address: ", err)
		}
		conf.TCP.Host = host
		fmt.Sscanf(port, "%d", &conf.TCP.Port)
	}

	reg := registry.New()

	if conf.History.Enabled {
		rec, err := history.Open(conf.History.File)
		if err != nil {
			log.Fatal("failed to open history database: ", err)
		}
		driver.Recorder = rec
	}

	tcpAddr := fmt.Sprintf("%s:%d", conf.TCP.Host, conf.TCP.Port)
	ln, err := conn.ListenTCP(reg, tcpAddr)
	if err != nil {
		log.Fatal("failed to bind tcp listener: ", err)
	}

	if conf.TCP.WS.Enabled {
		wsAddr := fmt.Sprintf("%s:%d", conf.TCP.Host, conf.TCP.WS.Port)
		mux := http.NewServeMux()
		mux.HandleFunc("/", conn.WebsocketHandler(reg))
		go func() {
			if err := http.ListenAndServe(wsAddr, mux); err != nil {
				config.Log.Printf("websocket listener exited: %v", err)
			}
		}()
	}

	if conf.Status.Enabled {
		go func() {
			if err := statusweb.ListenAndServe(reg, conf.Status.Host, conf.Status.Port); err != nil {
				config.Log.Printf("status listener exited: %v", err)
			}
		}()
	}

	d := dispatch.New(reg, conf.Timing)
	done := make(chan struct{})
	go d.Run(done)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	config.Log.Print("shutting down")
	close(done)
	ln.Close()
	if driver.Recorder != nil {
		driver.Recorder.Close()
	}
}
