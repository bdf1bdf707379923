// Package gatewayes provides bearer token sources for requests built with
// the rpc package.
//
// The module is organised as follows:
//
//	rpc                          request construction for google.api.http bound methods
//	wire                         int64 and bytes JSON codecs
//	httprule                     google.api.http options to rpc.Descriptor
//	protoc-gen-grpc-gateway-es   protoc plugin emitting TypeScript types and RPC constants
//	gwreq                        command printing the HTTP request for a method call
package gatewayes
