package sqlinline

// Schema is applied by flabictl migrate. Every statement is idempotent.
const Schema = `--sql 2fc88d80-8365-447a-a41c-3b7ffb69efea
create extension if not exists pgcrypto;

create table if not exists posts (
  id uuid primary key default gen_random_uuid(),
  title text not null,
  text text not null,
  images jsonb not null default '[]'::jsonb,
  created_at timestamptz not null default now()
);

create table if not exists pledges_per_km (
  id uuid primary key default gen_random_uuid(),
  name text not null,
  amount_per_km numeric not null check (amount_per_km >= 0),
  country text,
  created_at timestamptz not null default now()
);

create table if not exists donations_fixed (
  id uuid primary key default gen_random_uuid(),
  name text not null,
  amount numeric not null check (amount >= 0),
  country text,
  created_at timestamptz not null default now()
);

create table if not exists status (
  id int primary key check (id = 1),
  lat double precision not null,
  lng double precision not null,
  km double precision not null default 0 check (km >= 0),
  updated_at timestamptz not null default now()
);

create table if not exists admins (
  id uuid primary key default gen_random_uuid(),
  email text not null unique,
  password_hash text not null,
  created_at timestamptz not null default now()
);

create index if not exists posts_created_at_idx on posts (created_at desc);
create index if not exists pledges_created_at_idx on pledges_per_km (created_at desc);
create index if not exists donations_created_at_idx on donations_fixed (created_at desc);
`

// QSeedStatus provisions the singleton status row at the default position.
const QSeedStatus = `--sql 8691a725-bceb-4f6f-b17f-0aa63a2e1c85
insert into status(id, lat, lng, km, updated_at)
values ($1::int, $2::float8, $3::float8, 0, now())
on conflict (id) do nothing;
`
