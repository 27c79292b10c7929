// Package exclusion parses the exclusion rule file and enforces the policies
// it implies over a manifest.
//
// A rule line looks like
//
//	nostack:GarbageCollection:Microsoft-Windows-DotNETRuntime::GCStart_V1
//
// with positions kind, task, provider, an unused position and symbol. Empty or
// missing positions are wildcards. Three kinds exist: nostack, stack and
// noclrinstanceid. Lines containing a nomac token are skipped.
//
// Validate fails when an event whose template is not excluded lacks a
// ClrInstanceID:UInt16 field, or when only some versions of an event id state
// a stack preference.
package exclusion
