// Package rpc builds HTTP requests for gRPC methods exposed through
// grpc-gateway, following the google.api.http mapping rules.
//
// A Descriptor holds the verb, the path template and the optional body
// selector of one method. Build takes the request message as a Tree and
//
//  1. substitutes the path placeholders, including dotted ones such as
//     {book.name}, with string fields of the message,
//  2. sends the selected body field, or everything that is left, as JSON,
//  3. encodes the remaining top-level scalar fields and scalar lists as
//     query parameters, dropping nested objects with a warning.
//
// Example:
//
//	getDocument := rpc.MustRPC[*pb.GetDocumentRequest, *pb.Document](
//	    "GET", "/v1/{name=projects/*/documents/*}", "")
//
//	req, err := getDocument.NewRequest(ctx, rpc.RequestConfig{
//	    BasePath:    "https://example.test/api",
//	    BearerToken: rpc.StaticToken(token),
//	}, &pb.GetDocumentRequest{Name: "projects/a/documents/b"})
//	if err != nil {
//	    return err
//	}
//	resp, err := http.DefaultClient.Do(req)
//
// Building a request never performs I/O and never modifies the caller's
// message; descriptors and configs can be shared between goroutines.
package rpc
