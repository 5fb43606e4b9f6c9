// Package action implements the deployWeb pipeline: it resolves a git
// repository to a directory on local storage, hands that directory to a
// deploy tool and reports the outcome in a fixed, base64-encoded envelope.
//
// A request flows through four stages:
//
//   - credentials: explicit request values win over the ambient Environment
//   - location: the URL is parsed into host/org/name and mapped to a
//     pre-installed cache path and a scratch path
//   - fetch: on a cache miss the repository is shallow cloned into the
//     scratch path
//   - deploy: a Descriptor is passed to the configured Deployer
//
// Every failure is funneled into a single Failure envelope; see Action.Handle.
package action
