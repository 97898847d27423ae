// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package upload stores photo files and returns the URL recorded on each Photo.

# Providers

  - LocalUploader writes to a directory that the router serves under /files/.
    Stored names are <unix-ms>_<uuid><ext>, so uploads never collide.
  - SMMSUploader posts to the SM.MS image host with the account token in the
    Authorization header. An image SM.MS has seen before resolves to its
    existing URL.

Both enforce the configured size limit (ErrTooLarge) and accept only common
image extensions (ErrUnsupportedType). Remote failures surface as
*ProviderError carrying the provider's error code.
*/
package upload
