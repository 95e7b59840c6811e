// Package sparkpost is a client for the SparkPost transactional email API.
//
// A Client is created once and shared:
//
//	client, err := sparkpost.New(sparkpost.Config{APIKey: key})
//	if err != nil {
//		return err
//	}
//
//	resp, err := client.Transmissions.Send(ctx, &sparkpost.Transmission{
//		Recipients: sparkpost.RecipientsOf(
//			sparkpost.Recipient{Address: sparkpost.AddressText("Jane Doe <jane@example.com>")},
//		),
//		CC: []sparkpost.Recipient{
//			{Address: sparkpost.AddressText("bob@example.com")},
//		},
//		Content: sparkpost.Content{
//			From:    &from,
//			Subject: "Hello",
//			Text:    "Hello from SparkPost",
//		},
//	}, nil)
//
// Each resource of the API is exposed as a service on the Client. Service
// methods check their required arguments and return a *ValidationError
// without calling the API when one is missing. Responses with a 4xx or 5xx
// status are returned as *APIError carrying the API's error list:
//
//	var apiErr *sparkpost.APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
//		...
//	}
//
// Transmissions are normalized by FormatPayload before they are sent: CC
// and BCC lists are merged into the recipient list with header_to set, and
// a CC header is added to the content.
package sparkpost
