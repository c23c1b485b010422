package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
)

var (
	niftyDataDir = dataDir()
	statePath    = filepath.Join(niftyDataDir, "state.json")
)

func main() {
	app := cli.NewApp()

	app.Version = "0.0.1"
	app.Name = "nifty marketplace CLI"
	app.Usage = "Command line interface for niftyd daemon operators"
	app.Commands = append(
		app.Commands,
		&config,
		&listing,
		&listings,
		&purchases,
		&report,
		&webhook,
		&listwebhooks,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nifty-cli"
	}
	return filepath.Join(home, ".nifty-cli")
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := ioutil.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	json.Unmarshal(file, &data)

	return data, nil
}

func setState(data map[string]string) error {
	if _, err := os.Stat(niftyDataDir); os.IsNotExist(err) {
		os.Mkdir(niftyDataDir, os.ModeDir|0755)
	}

	currentData, _ := getState()
	mergedData := merge(currentData, data)

	jsonString, err := json.Marshal(mergedData)
	if err != nil {
		return err
	}
	if err := ioutil.WriteFile(statePath, jsonString, 0644); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}

func getDaemonURL() (string, error) {
	state, err := getState()
	if err != nil {
		return "", err
	}
	addr, ok := state["rpcserver"]
	if !ok {
		return "", errors.New("set the daemon address with `config set rpcserver`")
	}
	return "http://" + addr, nil
}

// daemonRequest sends the request to the daemon and decodes the JSON
// response, if any, into out.
func daemonRequest(method, path string, body, out interface{}) error {
	baseURL, err := getDaemonURL()
	if err != nil {
		return err
	}

	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(buf)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		errBody := map[string]string{}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
			if msg, ok := errBody["error"]; ok {
				return errors.New(msg)
			}
		}
		return fmt.Errorf("daemon replied with status %d", resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func printRespJSON(resp interface{}) {
	jsonStr, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}

	fmt.Println(string(jsonStr))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[nifty] %v\n", err)
	os.Exit(1)
}
