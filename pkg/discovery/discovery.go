// Quran Luganda Ahmadiyya
// Copyright (c) 2026 The Quran Luganda Ahmadiyya Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Quran Luganda Ahmadiyya.
//
// Quran Luganda Ahmadiyya is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Quran Luganda Ahmadiyya is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Quran Luganda Ahmadiyya.  If not, see <http://www.gnu.org/licenses/>.

// Package discovery advertises the search server on the local network over
// mDNS so reader apps can find it without an address.
package discovery

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/helpers/syncutil"
	"github.com/grandcat/zeroconf"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	ServiceType  = "_quran-luganda._tcp"
	domain       = "local."
	fallbackName = "quran-luganda"

	retryInterval    = 30 * time.Second
	maxRetryDuration = 5 * time.Minute
)

// Container and VPN interfaces are never advertised on.
var virtualPrefixes = []string{
	"docker", "br-", "veth", "virbr", "lxc", "lxd",
	"cni", "flannel", "cali", "tunl", "wg",
}

func isVirtual(name string) bool {
	name = strings.ToLower(name)
	for _, p := range virtualPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// usableInterfaces keeps interfaces that are up, multicast capable, not
// loopback and not virtual.
func usableInterfaces(ifaces []net.Interface) []net.Interface {
	var out []net.Interface
	for _, iface := range ifaces {
		switch {
		case iface.Flags&net.FlagUp == 0,
			iface.Flags&net.FlagLoopback != 0,
			iface.Flags&net.FlagMulticast == 0,
			isVirtual(iface.Name):
			continue
		}
		out = append(out, iface)
	}
	return out
}

// InstanceName picks the advertised name: the configured one, else the
// hostname, else a fixed fallback.
func InstanceName(configured string, hostname func() (string, error)) string {
	if configured != "" {
		return configured
	}
	if hostname != nil {
		if h, err := hostname(); err == nil && h != "" {
			return h
		} else if err != nil {
			log.Warn().Err(err).Msg("failed to get hostname for mdns")
		}
	}
	return fallbackName
}

// TXTRecords describes the server to browsing clients.
func TXTRecords(version string, verses int) []string {
	return []string{
		"version=" + version,
		"verses=" + strconv.Itoa(verses),
		"path=/ws",
	}
}

type registerFunc func(name string, port int, txt []string, ifaces []net.Interface) (shutdowner, error)

type shutdowner interface {
	Shutdown()
}

func zeroconfRegister(name string, port int, txt []string, ifaces []net.Interface) (shutdowner, error) {
	s, err := zeroconf.Register(name, ServiceType, domain, port, txt, ifaces)
	if err != nil {
		return nil, fmt.Errorf("mdns register: %w", err)
	}
	return s, nil
}

// Advertiser registers the service and keeps retrying for a while when the
// network is not ready yet.
type Advertiser struct {
	clock      clockwork.Clock
	server     shutdowner
	register   registerFunc
	interfaces func() ([]net.Interface, error)
	cancel     context.CancelFunc
	name       string
	txt        []string
	port       int
	stopped    bool
	mu         syncutil.Mutex
}

func New(name string, port int, txt []string, clock clockwork.Clock) *Advertiser {
	return &Advertiser{
		name:       name,
		port:       port,
		txt:        txt,
		clock:      clock,
		register:   zeroconfRegister,
		interfaces: net.Interfaces,
	}
}

// Start registers the service, falling back to a background retry loop
// bounded by ctx and maxRetryDuration.
func (a *Advertiser) Start(ctx context.Context) {
	if a.tryRegister() {
		return
	}
	log.Info().
		Dur("retry_interval", retryInterval).
		Msg("mdns registration failed, retrying in background")

	ctx, cancel := context.WithTimeout(ctx, maxRetryDuration)
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()
	go a.retry(ctx)
}

func (a *Advertiser) tryRegister() bool {
	all, err := a.interfaces()
	if err != nil {
		log.Debug().Err(err).Msg("failed to list network interfaces")
		return false
	}
	ifaces := usableInterfaces(all)
	if len(ifaces) == 0 {
		log.Debug().Msg("no network interfaces usable for mdns")
		return false
	}

	server, err := a.register(a.name, a.port, a.txt, ifaces)
	if err != nil {
		log.Debug().Err(err).Msg("mdns registration attempt failed")
		return false
	}

	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		server.Shutdown()
		return false
	}
	a.server = server
	a.mu.Unlock()

	log.Info().
		Str("instance", a.name).
		Int("port", a.port).
		Str("type", ServiceType).
		Msg("advertising search server over mdns")
	return true
}

func (a *Advertiser) retry(ctx context.Context) {
	ticker := a.clock.NewTicker(retryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.Chan():
			if a.tryRegister() {
				return
			}
		case <-ctx.Done():
			log.Warn().Msg("gave up on mdns registration")
			return
		}
	}
}

// Registered reports whether the service is currently advertised.
func (a *Advertiser) Registered() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.server != nil
}

// Stop withdraws the advertisement. It is safe to call more than once.
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}
