// Package analytics is a client-side analytics event collection library.
//
// The host application creates one Client and sends events to it. Each event is enriched with
// session, device, context, user and privacy information, saved in a local queue, and delivered to
// the collection endpoint in batches, with retries, when the device is online:
//
//	client, err := analytics.NewClient(analytics.Config{
//	    CollectDomain: "logs.example.com",
//	    Site:          123456,
//	    DatabasePath:  filepath.Join(dataDir, "analytics.db"),
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.SendEvents(model.NewEventBuilder(model.EventNamePageDisplay).
//	    Properties(model.NewProperty(model.Page, model.String("home"))).
//	    MustBuild())
//
// Event types are in the model package, optional configuration builders in the components package,
// and audio/video measurement in the media package.
package analytics
