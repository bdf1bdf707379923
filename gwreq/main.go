// Command gwreq prints the HTTP request grpc-gateway expects for a gRPC
// method call, without sending it.
//
//	protoc --include_imports --descriptor_set_out=api.pb api.proto
//	gwreq -descriptor_set api.pb -method example.library.v1.Library/GetBook -params req.yaml
//
// Settings come from the file given by -config and from GWREQ_*
// environment variables: GWREQ_BASE_PATH, GWREQ_BEARER_TOKEN,
// GWREQ_LOG_LEVEL, GWREQ_ORIGINAL_NAMES and GWREQ_JWT_SECRET,
// GWREQ_JWT_SUBJECT, GWREQ_JWT_ISSUER, GWREQ_JWT_TTL.
package main

import (
	"flag"
	"io"
	"os"

	"github.com/jhump/protoreflect/desc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	gatewayes "github.com/czabaj/protoc-gen-grpc-gateway-es"
	"github.com/czabaj/protoc-gen-grpc-gateway-es/httprule"
	"github.com/czabaj/protoc-gen-grpc-gateway-es/rpc"
)

type options struct {
	DescriptorSet string
	Method        string
	Params        string
	Config        string
}

func main() {
	var opts options
	flag.StringVar(&opts.DescriptorSet, "descriptor_set", "", "path of a FileDescriptorSet containing the service")
	flag.StringVar(&opts.Method, "method", "", "method as pkg.Service/Method or pkg.Service.Method")
	flag.StringVar(&opts.Params, "params", "", "request parameters as a JSON or YAML file, - for stdin")
	flag.StringVar(&opts.Config, "config", "", "optional config file")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if opts.DescriptorSet == "" || opts.Method == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(opts, os.Stdin, os.Stdout, &logger); err != nil {
		logger.Fatal().Err(err).Str("method", opts.Method).Msg("gwreq failed")
	}
}

func run(opts options, stdin io.Reader, stdout io.Writer, logger *zerolog.Logger) error {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return err
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "log level %q", cfg.LogLevel)
	}
	l := logger.Level(level)
	logger = &l

	files, err := loadDescriptorSet(opts.DescriptorSet)
	if err != nil {
		return err
	}
	md, err := findMethod(files, opts.Method)
	if err != nil {
		return err
	}
	d, err := resolve(md, cfg)
	if err != nil {
		return err
	}
	logger.Debug().Str("rpc", d.String()).Msg("resolved http rule")

	params, err := readParams(opts.Params, stdin)
	if err != nil {
		return err
	}

	reqCfg := rpc.RequestConfig{BasePath: cfg.BasePath, Logger: logger}
	var verify func(string) ([]string, error)
	switch {
	case cfg.BearerToken != "":
		reqCfg.BearerToken = rpc.StaticToken(cfg.BearerToken)
	case cfg.JWT.Subject != "":
		src := gatewayes.NewJWTTokenSource(cfg.JWT)
		reqCfg.BearerToken = src
		verify = func(auth string) ([]string, error) {
			claims, err := src.Verify(auth)
			if err != nil {
				return nil, err
			}
			return gatewayes.ClaimStrings(claims), nil
		}
	}

	req, err := rpc.Build(d, reqCfg, params)
	if err != nil {
		return err
	}
	return printRequest(stdout, req, verify)
}

func resolve(md *desc.MethodDescriptor, cfg *Config) (*rpc.Descriptor, error) {
	if md.IsClientStreaming() {
		return nil, errors.Errorf("%s is client streaming, grpc-gateway cannot map it", md.GetFullyQualifiedName())
	}
	return httprule.Resolve(md.UnwrapMethod(), httprule.Options{OriginalNames: cfg.OriginalNames})
}
