// Command sendevents sends a few sample events through a Client with debug logging, and reports
// how long it took until they were processed. It reads its settings from the file named by
// ANALYTICS_CONFIG, or uses ANALYTICS_COLLECT_DOMAIN with site 1.
package main

import (
	"log"
	"os"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/analyticskit/go-analytics"
	"github.com/analyticskit/go-analytics/components"
	"github.com/analyticskit/go-analytics/model"
)

func main() {
	config := analytics.Config{CollectDomain: os.Getenv("ANALYTICS_COLLECT_DOMAIN"), Site: 1}
	if path := os.Getenv("ANALYTICS_CONFIG"); path != "" {
		var err error
		if config, err = analytics.LoadConfigFile(path); err != nil {
			log.Fatal(err)
		}
	}
	config.Logging = components.Logging().MinLevel(ldlog.Debug).LogEventPayloads(true)
	config.SendDelay = -1

	then := time.Now()
	client, err := analytics.NewClient(config)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()
	processed := client.AddProcessedEventsListener()

	client.SetScreenName("sample")
	client.SendEvents(
		model.NewEventBuilder(model.EventNamePageDisplay).MustBuild(),
		model.NewEventBuilder("click.action").
			Properties(model.NewProperty(model.Click, model.String("sample-button"))).
			MustBuild(),
	)

	timer := time.NewTimer(30 * time.Second)
	defer timer.Stop()
	select {
	case events := <-processed:
		log.Printf("processed %d events in %s", len(events), time.Since(then))
		client.Flush()
	case <-timer.C:
		log.Println("timeout in", time.Since(then))
	}
}
