// Command union is a small CLI client for the gallery service.
package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// ---- session store ----

type sessionFile struct {
	ID       string    `json:"id"`
	IssuedAt time.Time `json:"issued_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "union")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "union")
}

func sessionPath() string { return filepath.Join(cfgDir(), "session.json") }

func saveSession(id string) error {
	_ = os.MkdirAll(cfgDir(), 0o700)
	f, err := os.Create(sessionPath())
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(sessionFile{ID: id, IssuedAt: time.Now()})
}

func loadSession() (string, error) {
	b, err := os.ReadFile(sessionPath())
	if err != nil {
		return "", err
	}
	var sf sessionFile
	if err := json.Unmarshal(b, &sf); err != nil {
		return "", err
	}
	if sf.ID == "" {
		return "", errors.New("no saved session, login first")
	}
	return sf.ID, nil
}

// ---- transport ----

type response struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

// command dials /ws/<op>, sends one JSON request and reads one response.
func command(server, op string, req any) (response, error) {
	url := "ws://" + server + "/ws/" + op
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return response{}, fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(req); err != nil {
		return response{}, err
	}
	var resp response
	if err := conn.ReadJSON(&resp); err != nil {
		return response{}, err
	}
	return resp, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: union [-server host:port] <command> [args]

commands:
  signup <email> <username> <password>
  login <email> <password>
  creategallery <name>
  upload <gallery> <file.jpg> [more.jpg ...]`)
	os.Exit(2)
}

func main() {
	args := os.Args[1:]
	server := "localhost:8080"
	if len(args) >= 2 && args[0] == "-server" {
		server = args[1]
		args = args[2:]
	}
	if len(args) == 0 {
		usage()
	}

	var err error
	switch args[0] {
	case "signup":
		err = runSignup(server, args[1:])
	case "login":
		err = runLogin(server, args[1:])
	case "creategallery":
		err = runCreateGallery(server, args[1:])
	case "upload":
		err = runUpload(server, args[1:])
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runSignup(server string, args []string) error {
	if len(args) != 3 {
		usage()
	}
	resp, err := command(server, "signup", map[string]string{
		"email": args[0], "username": args[1], "password": args[2],
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return errors.New("signup rejected")
	}
	fmt.Println("ok")
	return nil
}

func runLogin(server string, args []string) error {
	if len(args) != 2 {
		usage()
	}
	resp, err := command(server, "login", map[string]string{
		"email": args[0], "password": args[1],
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return errors.New("login rejected")
	}
	if err := saveSession(resp.ID); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

func runCreateGallery(server string, args []string) error {
	if len(args) != 1 {
		usage()
	}
	id, err := loadSession()
	if err != nil {
		return err
	}
	resp, err := command(server, "creategallery", map[string]string{
		"gallery_name": args[0], "id": id,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return errors.New("gallery creation rejected")
	}
	fmt.Println("ok")
	return nil
}

func runUpload(server string, args []string) error {
	if len(args) < 2 {
		usage()
	}
	id, err := loadSession()
	if err != nil {
		return err
	}
	gallery := args[0]

	type item struct {
		GalleryName string `json:"gallery_name"`
		ImageName   string `json:"image_name"`
		Image       string `json:"image"`
	}
	var items []item
	for _, file := range args[1:] {
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		items = append(items, item{
			GalleryName: gallery,
			ImageName:   filepath.Base(file),
			Image:       "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data),
		})
	}
	body, err := json.Marshal(items)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, "http://"+server+"/post/image", strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.AddCookie(&http.Cookie{Name: "id", Value: id})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upload failed: %s", resp.Status)
	}
	fmt.Printf("uploaded %d file(s)\n", len(items))
	return nil
}
