package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"genhub/internal/sync"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP sync server address")
	user := flag.String("user", "", "only show events for this tree owner")
	eventType := flag.String("type", "", "only show events of this type (e.g. person.update)")
	pretty := flag.Bool("pretty", true, "pretty print JSON events")
	flag.Parse()

	for {
		if err := run(*addr, *user, *eventType, *pretty); err != nil {
			log.Printf("[sync-client] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func run(addr, user, eventType string, pretty bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync-client] connected to %s", addr)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()

		var ev sync.TreeEvent
		if err := json.Unmarshal(line, &ev); err != nil || ev.Type == "" {
			// welcome banner or other non-event payload
			if user == "" && eventType == "" {
				fmt.Println(string(line))
			}
			continue
		}

		if user != "" && ev.UserID != user {
			continue
		}
		if eventType != "" && ev.Type != eventType {
			continue
		}

		if !pretty {
			fmt.Println(string(line))
			continue
		}
		b, _ := json.MarshalIndent(ev, "", "  ")
		fmt.Println(string(b))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}
