// Package superrepo locates the root of a manifest-managed super-repository by
// walking upward from a starting directory until a .repo marker directory is found.
package superrepo
