// Command simulator sends randomized vehicle telemetry to a running edge
// service, authenticating as the bootstrap test device. It reads the device's
// credential straight from the edge database, the same way the firmware's
// provisioning step would.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"

	"bykerz-iot-edge/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	var (
		edgeURL  = flag.String("edge", "http://localhost:5000/api/v1/metrics", "edge metrics endpoint")
		deviceID = flag.String("device", "bykerz-iot-001", "device_id to send as")
		dbPath   = flag.String("db", "bykerz_iot.db", "edge SQLite database path")
		interval = flag.Duration("interval", 5*time.Second, "delay between submissions")
	)
	flag.Parse()

	db, err := gorm.Open(sqlite.Open(*dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to open edge database: %v", err)
	}

	device, err := repository.NewDeviceRepo(db).FindByID(*deviceID)
	if err != nil {
		log.Fatalf("Failed to look up device %s: %v", *deviceID, err)
	}
	if device == nil {
		log.Fatalf("Device %s not found; start the edge server once to bootstrap it", *deviceID)
	}

	log.Printf("Simulating device %s against %s every %s", *deviceID, *edgeURL, *interval)

	client := &http.Client{Timeout: 5 * time.Second}
	for {
		sendMetric(client, *edgeURL, *deviceID, device.APIKey)
		time.Sleep(*interval)
	}
}

func sendMetric(client *http.Client, url, deviceID, token string) {
	co2 := 400 + rand.Float64()*100
	temp := 20 + rand.Float64()*10
	payload := map[string]interface{}{
		"device_id":          deviceID,
		"vehicle_id":         1,
		"latitude":           -12.046374 + rand.Float64()*0.002 - 0.001,
		"longitude":          -77.042793 + rand.Float64()*0.002 - 0.001,
		"CO2Ppm":             co2,
		"NH3Ppm":             20 + rand.Float64()*15,
		"BenzenePpm":         3 + rand.Float64()*7,
		"temperatureCelsius": temp,
		"humidityPercentage": 60 + rand.Float64()*20,
		"pressureHpa":        1010 + rand.Float64()*10,
		"impactDetected":     rand.Intn(2) == 1,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to encode payload: %v", err)
		return
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Printf("Failed to build request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		log.Printf("Send failed: %v", err)
		return
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	log.Printf("Sent metric (CO2=%.1fppm, temp=%.1fC) -> %d %s",
		co2, temp, resp.StatusCode, bytes.TrimSpace(respBody))
}
