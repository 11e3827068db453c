package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"genhub/internal/merge"
	"genhub/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type tokenData struct {
	Token string `json:"token"`
}

type authResponse struct {
	Token string `json:"token"`
}

func main() {
	global := flag.NewFlagSet("genhub", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	tokenPath := global.String("token", defaultTokenPath(), "token file path")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	client := &http.Client{Timeout: 15 * time.Second}

	switch cmd {
	case "auth":
		handleAuth(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "persons":
		handlePersons(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "links":
		handleLinks(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "tree":
		handleTree(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "shares":
		handleShares(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "merge":
		handleMerge(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "sync":
		handleSync(sub, args[2:])
	case "notify":
		handleNotify(*baseURL, sub, args[2:])
	case "chat":
		handleChat(*baseURL, sub, args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	switch sub {
	case "login":
		fs := flag.NewFlagSet("auth login", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *email == "" || *password == "" {
			log.Fatal("email and password are required")
		}

		payload := map[string]string{"email": *email, "password": *password}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/login", "", payload, &resp); err != nil {
			log.Fatalf("login failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("✅ logged in")
	case "register":
		fs := flag.NewFlagSet("auth register", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		firstName := fs.String("first-name", "", "first name")
		lastName := fs.String("last-name", "", "last name")
		consent := fs.Bool("gdpr-consent", false, "accept the privacy policy")
		_ = fs.Parse(args)

		if *email == "" || *password == "" || *firstName == "" || *lastName == "" {
			log.Fatal("email, password, first-name, and last-name are required")
		}
		if !*consent {
			log.Fatal("registration requires --gdpr-consent")
		}

		payload := map[string]any{
			"email":        *email,
			"password":     *password,
			"first_name":   *firstName,
			"last_name":    *lastName,
			"gdpr_consent": true,
		}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/register", "", payload, &resp); err != nil {
			log.Fatalf("register failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("✅ registered and logged in")
	case "logout":
		if err := clearToken(tokenPath); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("✅ logged out")
	default:
		log.Fatal("usage: genhub auth <login|register|logout>")
	}
}

func handlePersons(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "list":
		var items []models.Person
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/persons", token, nil, &items); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(items)
	case "add":
		fs := flag.NewFlagSet("persons add", flag.ExitOnError)
		firstName := fs.String("first-name", "", "first name")
		lastName := fs.String("last-name", "", "last name")
		gender := fs.String("gender", "", "male, female, or unknown")
		birthDate := fs.String("birth-date", "", "birth date (YYYY-MM-DD)")
		birthPlace := fs.String("birth-place", "", "birth place")
		region := fs.String("region", "", "family branch or region")
		_ = fs.Parse(args)

		if *firstName == "" || *lastName == "" {
			log.Fatal("first-name and last-name are required")
		}

		payload := map[string]string{
			"first_name":  *firstName,
			"last_name":   *lastName,
			"gender":      *gender,
			"birth_date":  *birthDate,
			"birth_place": *birthPlace,
			"region":      *region,
		}
		var created models.Person
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/persons", token, payload, &created); err != nil {
			log.Fatalf("add failed: %v", err)
		}
		printJSON(created)
	case "show":
		fs := flag.NewFlagSet("persons show", flag.ExitOnError)
		id := fs.String("id", "", "person id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("id is required")
		}
		var p models.Person
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/persons/"+*id, token, nil, &p); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(p)
	case "delete":
		fs := flag.NewFlagSet("persons delete", flag.ExitOnError)
		id := fs.String("id", "", "person id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("id is required")
		}
		if err := doJSON(ctx, client, http.MethodDelete, baseURL+"/persons/"+*id, token, nil, nil); err != nil {
			log.Fatalf("delete failed: %v", err)
		}
		fmt.Println("✅ person deleted")
	default:
		log.Fatal("usage: genhub persons <list|add|show|delete>")
	}
}

func handleLinks(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "list":
		var items []models.FamilyLink
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/links", token, nil, &items); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(items)
	case "add":
		fs := flag.NewFlagSet("links add", flag.ExitOnError)
		person1 := fs.String("person1", "", "first person id")
		person2 := fs.String("person2", "", "second person id")
		linkType := fs.String("type", "", "parent, child, spouse, or sibling")
		_ = fs.Parse(args)

		if *person1 == "" || *person2 == "" || *linkType == "" {
			log.Fatal("person1, person2, and type are required")
		}

		payload := map[string]string{
			"person_id_1": *person1,
			"person_id_2": *person2,
			"link_type":   *linkType,
		}
		var created models.FamilyLink
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/links", token, payload, &created); err != nil {
			log.Fatalf("add failed: %v", err)
		}
		printJSON(created)
	case "delete":
		fs := flag.NewFlagSet("links delete", flag.ExitOnError)
		id := fs.String("id", "", "link id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("id is required")
		}
		if err := doJSON(ctx, client, http.MethodDelete, baseURL+"/links/"+*id, token, nil, nil); err != nil {
			log.Fatalf("delete failed: %v", err)
		}
		fmt.Println("✅ link deleted")
	default:
		log.Fatal("usage: genhub links <list|add|delete>")
	}
}

func handleTree(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "show":
		var out map[string]any
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/tree", token, nil, &out); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(out)
	case "export":
		fs := flag.NewFlagSet("tree export", flag.ExitOnError)
		outPath := fs.String("out", "tree-export.json", "output JSON path")
		_ = fs.Parse(args)

		var out map[string]any
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/tree/export", token, nil, &out); err != nil {
			log.Fatalf("export failed: %v", err)
		}
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			log.Fatalf("encode failed: %v", err)
		}
		if err := os.WriteFile(*outPath, b, 0o600); err != nil {
			log.Fatalf("write failed: %v", err)
		}
		fmt.Printf("✅ exported tree to %s\n", *outPath)
	default:
		log.Fatal("usage: genhub tree <show|export>")
	}
}

func handleShares(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "grant":
		fs := flag.NewFlagSet("shares grant", flag.ExitOnError)
		email := fs.String("email", "", "grantee email address")
		role := fs.String("role", models.ShareRoleView, "view or edit")
		_ = fs.Parse(args)

		if *email == "" {
			log.Fatal("email is required")
		}

		payload := map[string]string{"grantee_email": *email, "role": *role}
		var created models.TreeShare
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/shares", token, payload, &created); err != nil {
			log.Fatalf("grant failed: %v", err)
		}
		printJSON(created)
	case "list":
		var out map[string]any
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/shares", token, nil, &out); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(out)
	case "revoke":
		fs := flag.NewFlagSet("shares revoke", flag.ExitOnError)
		id := fs.String("id", "", "share id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("id is required")
		}
		if err := doJSON(ctx, client, http.MethodDelete, baseURL+"/shares/"+*id, token, nil, nil); err != nil {
			log.Fatalf("revoke failed: %v", err)
		}
		fmt.Println("✅ share revoked")
	default:
		log.Fatal("usage: genhub shares <grant|list|revoke>")
	}
}

func handleMerge(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "analyze":
		fs := flag.NewFlagSet("merge analyze", flag.ExitOnError)
		source := fs.String("source", "", "source tree owner id")
		_ = fs.Parse(args)
		if *source == "" {
			log.Fatal("source is required")
		}

		payload := map[string]string{"source_user_id": *source}
		var report merge.Report
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/merge/analyze", token, payload, &report); err != nil {
			log.Fatalf("analyze failed: %v", err)
		}
		printJSON(report)
	case "execute":
		fs := flag.NewFlagSet("merge execute", flag.ExitOnError)
		source := fs.String("source", "", "source tree owner id")
		decisionsPath := fs.String("decisions", "", "JSON file with per-person decisions (optional)")
		importLinks := fs.Bool("links", true, "import family links")
		_ = fs.Parse(args)
		if *source == "" {
			log.Fatal("source is required")
		}

		var decisions []merge.Decision
		if *decisionsPath != "" {
			data, err := os.ReadFile(*decisionsPath)
			if err != nil {
				log.Fatalf("read decisions: %v", err)
			}
			if err := json.Unmarshal(data, &decisions); err != nil {
				log.Fatalf("parse decisions: %v", err)
			}
		}

		payload := map[string]any{
			"source_user_id": *source,
			"decisions":      decisions,
			"import_links":   *importLinks,
		}
		var result merge.Result
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/merge/execute", token, payload, &result); err != nil {
			log.Fatalf("execute failed: %v", err)
		}
		printJSON(result)
	default:
		log.Fatal("usage: genhub merge <analyze|execute>")
	}
}

func handleSync(sub string, args []string) {
	switch sub {
	case "listen":
		fs := flag.NewFlagSet("sync listen", flag.ExitOnError)
		addr := fs.String("addr", "127.0.0.1:7070", "TCP sync server address")
		pretty := fs.Bool("pretty", true, "pretty print JSON events")
		_ = fs.Parse(args)
		for {
			if err := runSyncTCP(*addr, *pretty); err != nil {
				log.Printf("[sync] disconnected: %v", err)
			}
			time.Sleep(1 * time.Second)
		}
	default:
		log.Fatal("usage: genhub sync listen")
	}
}

func handleNotify(baseURL, sub string, args []string) {
	switch sub {
	case "subscribe":
		fs := flag.NewFlagSet("notify subscribe", flag.ExitOnError)
		wsURL := fs.String("ws", "", "WebSocket URL (defaults to /ws on API host)")
		_ = fs.Parse(args)

		endpoint := *wsURL
		if endpoint == "" {
			var err error
			endpoint, err = websocketURL(baseURL, "/ws", nil)
			if err != nil {
				log.Fatalf("ws url: %v", err)
			}
		}
		if err := runWebSocket(endpoint, false); err != nil {
			log.Fatalf("subscribe failed: %v", err)
		}
	default:
		log.Fatal("usage: genhub notify subscribe")
	}
}

func handleChat(baseURL, sub string, args []string) {
	switch sub {
	case "join":
		fs := flag.NewFlagSet("chat join", flag.ExitOnError)
		tree := fs.String("tree", "", "tree owner id to chat about")
		name := fs.String("name", "guest", "display name")
		_ = fs.Parse(args)
		if *tree == "" {
			log.Fatal("tree is required")
		}

		endpoint, err := websocketURL(baseURL, "/chat/ws", url.Values{
			"tree": []string{*tree},
			"user": []string{*name},
		})
		if err != nil {
			log.Fatalf("ws url: %v", err)
		}
		if err := runWebSocket(endpoint, true); err != nil {
			log.Fatalf("chat join failed: %v", err)
		}
	default:
		log.Fatal("usage: genhub chat join")
	}
}

func runSyncTCP(addr string, pretty bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync] connected to %s", addr)
	reader := bufio.NewScanner(conn)
	for reader.Scan() {
		line := reader.Bytes()
		if !pretty {
			fmt.Println(string(line))
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil {
			fmt.Println(string(line))
			continue
		}
		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Println(string(b))
	}
	if err := reader.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

// runWebSocket streams incoming messages to stdout. With interactive
// set, stdin lines are sent to the server as chat messages.
func runWebSocket(wsURL string, interactive bool) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[ws] connected to %s", wsURL)

	if !interactive {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return err
			}
			fmt.Println(string(msg))
		}
	}

	go func() {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			fmt.Println(string(msg))
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		payload, _ := json.Marshal(map[string]string{"text": text})
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint, token string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	return nil
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.genhub-token.json"
	}
	return filepath.Join(home, ".genhub", "token.json")
}

func saveToken(path, token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tokenData{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var td tokenData
	if err := json.Unmarshal(data, &td); err != nil {
		return "", err
	}
	return strings.TrimSpace(td.Token), nil
}

func mustToken(path string) string {
	token, err := readToken(path)
	if err != nil {
		log.Fatalf("token not found, please login: %v", err)
	}
	if token == "" {
		log.Fatal("token empty, please login")
	}
	return token
}

func clearToken(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func websocketURL(baseURL, path string, query url.Values) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	out := &url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}
	if query != nil {
		out.RawQuery = query.Encode()
	}
	return out.String(), nil
}

func printUsage() {
	fmt.Println("genhub <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  auth login|register|logout")
	fmt.Println("  persons list|add|show|delete")
	fmt.Println("  links list|add|delete")
	fmt.Println("  tree show|export")
	fmt.Println("  shares grant|list|revoke")
	fmt.Println("  merge analyze|execute")
	fmt.Println("  sync listen")
	fmt.Println("  notify subscribe")
	fmt.Println("  chat join")
}
