// Command sync-client tails the TCP event feed of a running gamescout server
// and prints catalog and favorite events as they arrive.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"
)

type anyEvent map[string]any

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP sync server address")
	pretty := flag.Bool("pretty", true, "pretty print JSON events")
	types := flag.String("types", "", "comma-separated event types to show (e.g. catalog.sync,favorite.update); empty shows all")
	flag.Parse()

	var wanted map[string]bool
	if *types != "" {
		wanted = map[string]bool{}
		for _, t := range strings.Split(*types, ",") {
			wanted[strings.TrimSpace(t)] = true
		}
	}

	for {
		if err := run(*addr, *pretty, wanted); err != nil {
			log.Printf("[sync-client] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func run(addr string, pretty bool, wanted map[string]bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync-client] connected to %s", addr)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()

		var obj anyEvent
		if err := json.Unmarshal(line, &obj); err != nil {
			// not JSON? print raw
			fmt.Println(string(line))
			continue
		}

		if wanted != nil {
			typ, _ := obj["type"].(string)
			if !wanted[typ] {
				continue
			}
		}

		if !pretty {
			fmt.Println(string(line))
			continue
		}
		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Println(string(b))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}
